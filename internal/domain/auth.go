package domain

import "context"

// SignUpInput is the payload for self-service account creation. The email
// must carry a verified OTP before signup is accepted.
type SignUpInput struct {
	Name          string
	Email         string
	PersonalEmail string
	Roll          string
	Password      string
	Role          Role
	DomainID      *string
}

// AuthService defines signup and session issuance.
type AuthService interface {
	// SignUp creates a user account. It rejects emails without a verified
	// OTP (ErrOtpNotVerified) and consumes the OTP on success.
	SignUp(ctx context.Context, input SignUpInput) (*User, error)
	// SignIn verifies credentials and returns the user and a signed session
	// token.
	SignIn(ctx context.Context, email, password string) (*User, string, error)
}
