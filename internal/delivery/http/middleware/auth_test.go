package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"societyattendance/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	userID string
	err    error
}

func (f *fakeVerifier) Verify(token string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.userID, nil
}

type fakeUserRepo struct {
	user *domain.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error { return nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, domain.ErrUserNotFound
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (f *fakeUserRepo) ExistsByAnyEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (f *fakeUserRepo) ExistsByRoll(ctx context.Context, roll string) (bool, error) {
	return false, nil
}
func (f *fakeUserRepo) List(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) ListByDomainID(ctx context.Context, domainID string, excludeSuperAdmins bool) ([]*domain.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id string) error      { return nil }

func TestRequireAuth(t *testing.T) {
	user := &domain.User{ID: "user-1", Role: domain.RoleMember}

	newHandler := func() (http.HandlerFunc, *bool, **domain.User) {
		called := false
		var got *domain.User
		handler := func(w http.ResponseWriter, r *http.Request) {
			called = true
			got, _ = CurrentUser(r.Context())
			w.WriteHeader(http.StatusOK)
		}
		return handler, &called, &got
	}

	t.Run("bearer token", func(t *testing.T) {
		handler, called, got := newHandler()
		wrapped := RequireAuth(&fakeVerifier{userID: "user-1"}, &fakeUserRepo{user: user})(handler)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()
		wrapped(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *called)
		require.NotNil(t, *got)
		assert.Equal(t, "user-1", (*got).ID)
	})

	t.Run("session cookie", func(t *testing.T) {
		handler, called, _ := newHandler()
		wrapped := RequireAuth(&fakeVerifier{userID: "user-1"}, &fakeUserRepo{user: user})(handler)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "some-token"})
		rec := httptest.NewRecorder()
		wrapped(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, *called)
	})

	t.Run("missing credentials", func(t *testing.T) {
		handler, called, _ := newHandler()
		wrapped := RequireAuth(&fakeVerifier{userID: "user-1"}, &fakeUserRepo{user: user})(handler)

		rec := httptest.NewRecorder()
		wrapped(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, *called)
	})

	t.Run("bad token", func(t *testing.T) {
		handler, called, _ := newHandler()
		wrapped := RequireAuth(&fakeVerifier{err: errors.New("bad signature")}, &fakeUserRepo{user: user})(handler)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		wrapped(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, *called)
	})

	t.Run("token for deleted user", func(t *testing.T) {
		handler, called, _ := newHandler()
		wrapped := RequireAuth(&fakeVerifier{userID: "ghost"}, &fakeUserRepo{user: user})(handler)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()
		wrapped(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, *called)
	})
}
