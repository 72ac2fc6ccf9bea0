package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for the OTP verification flow.
var (
	ErrOtpInvalid     = errors.New("invalid OTP code")
	ErrOtpExpired     = errors.New("OTP has expired")
	ErrEmailTaken     = errors.New("email is already registered")
	ErrOtpNotVerified = errors.New("email has not been verified")
)

// Otp is a one-time passcode row proving control of an email address prior to
// account creation. Rows are transient: at most one unverified row exists per
// email at a time, and verified rows are deleted once signup consumes them.
type Otp struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// OtpRepository defines the interface for OTP storage.
type OtpRepository interface {
	Create(ctx context.Context, o *Otp) error
	// GetLatestUnverified returns the most recently created unverified row
	// matching both email and code exactly, or ErrOtpInvalid.
	GetLatestUnverified(ctx context.Context, email, code string) (*Otp, error)
	MarkVerified(ctx context.Context, id string) error
	HasVerified(ctx context.Context, email string) (bool, error)
	// HasRecent reports whether any row for the email was created after the
	// given instant. Used for resend rate limiting.
	HasRecent(ctx context.Context, email string, since time.Time) (bool, error)
	DeleteUnverified(ctx context.Context, email string) error
	DeleteVerified(ctx context.Context, email string) error
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired removes rows past their expiry and returns the count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// OtpService governs the email-verification state machine:
// (none) -> unverified -> verified -> consumed.
type OtpService interface {
	// Send generates and emails a fresh code, replacing any prior unverified
	// code for the email. A send that fails to deliver leaves no row behind.
	Send(ctx context.Context, email, name string) error
	// Resend behaves like Send but is rejected with ErrRateLimited while a
	// code issued within the cooldown window exists.
	Resend(ctx context.Context, email, name string) error
	// Verify marks the matching unverified code as verified. Expired codes
	// are reported but left in place.
	Verify(ctx context.Context, email, code string) error
	HasVerified(ctx context.Context, email string) (bool, error)
	// Consume deletes all verified rows for the email after signup so a code
	// cannot be replayed for a second account.
	Consume(ctx context.Context, email string) error
	// CleanupExpired purges expired rows; run periodically.
	CleanupExpired(ctx context.Context) (int64, error)
}
