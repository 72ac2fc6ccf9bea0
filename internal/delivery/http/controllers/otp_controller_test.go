package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"societyattendance/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOtpService implements domain.OtpService for handler tests.
type fakeOtpService struct {
	sendErr   error
	resendErr error
	verifyErr error
	lastEmail string
	lastCode  string
}

func (f *fakeOtpService) Send(ctx context.Context, email, name string) error {
	f.lastEmail = email
	return f.sendErr
}

func (f *fakeOtpService) Resend(ctx context.Context, email, name string) error {
	f.lastEmail = email
	return f.resendErr
}

func (f *fakeOtpService) Verify(ctx context.Context, email, code string) error {
	f.lastEmail, f.lastCode = email, code
	return f.verifyErr
}

func (f *fakeOtpService) HasVerified(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (f *fakeOtpService) Consume(ctx context.Context, email string) error   { return nil }
func (f *fakeOtpService) CleanupExpired(ctx context.Context) (int64, error) { return 0, nil }

func TestOtpController_Send(t *testing.T) {
	t.Run("returns expiry in minutes", func(t *testing.T) {
		svc := &fakeOtpService{}
		c := NewOtpController(testLogger, svc)

		rec := postJSON(t, c.Send, "/otp/send", map[string]any{"email": "new@example.com", "name": "New"})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp SendOtpResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 10, resp.ExpiresIn)
		assert.Equal(t, "new@example.com", svc.lastEmail)
	})

	t.Run("registered email is a 409", func(t *testing.T) {
		c := NewOtpController(testLogger, &fakeOtpService{sendErr: domain.ErrEmailTaken})
		rec := postJSON(t, c.Send, "/otp/send", map[string]any{"email": "taken@example.com"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing email", func(t *testing.T) {
		c := NewOtpController(testLogger, &fakeOtpService{})
		rec := postJSON(t, c.Send, "/otp/send", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOtpController_Resend(t *testing.T) {
	t.Run("cooldown is a 429", func(t *testing.T) {
		c := NewOtpController(testLogger, &fakeOtpService{resendErr: domain.ErrRateLimited})
		rec := postJSON(t, c.Resend, "/otp/resend", map[string]any{"email": "a@example.com"})
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("past cooldown succeeds", func(t *testing.T) {
		c := NewOtpController(testLogger, &fakeOtpService{})
		rec := postJSON(t, c.Resend, "/otp/resend", map[string]any{"email": "a@example.com"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestOtpController_Verify(t *testing.T) {
	t.Run("verified", func(t *testing.T) {
		svc := &fakeOtpService{}
		c := NewOtpController(testLogger, svc)

		rec := postJSON(t, c.Verify, "/otp/verify", map[string]any{"email": "a@example.com", "otp": "123456"})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp VerifyOtpResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Verified)
		assert.Equal(t, "123456", svc.lastCode)
	})

	t.Run("wrong code is a 400", func(t *testing.T) {
		c := NewOtpController(testLogger, &fakeOtpService{verifyErr: domain.ErrOtpInvalid})
		rec := postJSON(t, c.Verify, "/otp/verify", map[string]any{"email": "a@example.com", "otp": "000000"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("expired code is a 400", func(t *testing.T) {
		c := NewOtpController(testLogger, &fakeOtpService{verifyErr: domain.ErrOtpExpired})
		rec := postJSON(t, c.Verify, "/otp/verify", map[string]any{"email": "a@example.com", "otp": "123456"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
