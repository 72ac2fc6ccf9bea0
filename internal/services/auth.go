package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"societyattendance/internal/domain"
)

// ErrInvalidCredentials is returned by SignIn when the email is unknown or
// the password does not match. The two cases are deliberately
// indistinguishable.
var ErrInvalidCredentials = errors.New("invalid email or password")

type authService struct {
	userRepo     domain.UserRepository
	otpService   domain.OtpService
	emailService domain.EmailService
	hasher       domain.PasswordHasher
	tokenIssuer  domain.TokenIssuer
	tokenExpiry  time.Duration
}

// NewAuthService creates an AuthService from the given ports.
func NewAuthService(userRepo domain.UserRepository, otpService domain.OtpService, emailService domain.EmailService, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration) domain.AuthService {
	return &authService{
		userRepo:     userRepo,
		otpService:   otpService,
		emailService: emailService,
		hasher:       hasher,
		tokenIssuer:  tokenIssuer,
		tokenExpiry:  tokenExpiry,
	}
}

func (s *authService) SignUp(ctx context.Context, input domain.SignUpInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.PersonalEmail = strings.TrimSpace(strings.ToLower(input.PersonalEmail))
	input.Roll = strings.TrimSpace(input.Roll)

	if input.Name == "" || input.Roll == "" {
		return nil, fmt.Errorf("name and roll are required: %w", domain.ErrInvalidInput)
	}
	if !emailRegexp.MatchString(input.Email) {
		return nil, fmt.Errorf("invalid email format: %w", domain.ErrInvalidInput)
	}
	if input.PersonalEmail != "" && !emailRegexp.MatchString(input.PersonalEmail) {
		return nil, fmt.Errorf("invalid personal email format: %w", domain.ErrInvalidInput)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", domain.ErrInvalidInput)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleMember
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", input.Role, domain.ErrInvalidInput)
	}
	domainID := input.DomainID
	if role == domain.RoleSuperAdmin {
		domainID = nil
	}

	verified, err := s.otpService.HasVerified(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email verification: %w", err)
	}
	if !verified {
		return nil, domain.ErrOtpNotVerified
	}

	taken, err := s.userRepo.ExistsByAnyEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, domain.ErrDuplicateEmail
	}
	if input.PersonalEmail != "" {
		taken, err = s.userRepo.ExistsByAnyEmail(ctx, input.PersonalEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to check personal email: %w", err)
		}
		if taken {
			return nil, domain.ErrDuplicateEmail
		}
	}
	rollTaken, err := s.userRepo.ExistsByRoll(ctx, input.Roll)
	if err != nil {
		return nil, fmt.Errorf("failed to check roll: %w", err)
	}
	if rollTaken {
		return nil, domain.ErrDuplicateRoll
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Name:          input.Name,
		Email:         input.Email,
		PersonalEmail: input.PersonalEmail,
		Roll:          input.Roll,
		PasswordHash:  hash,
		Salt:          salt,
		Role:          role,
		DomainID:      domainID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.otpService.Consume(ctx, input.Email); err != nil {
		log.Printf("[AUTH] failed to consume verified code for %s: %v", input.Email, err)
	}
	if s.emailService != nil {
		data := &domain.WelcomeEmailData{Email: user.Email, Name: user.Name}
		if err := s.emailService.SendWelcome(ctx, data); err != nil {
			log.Printf("[AUTH] failed to send welcome email to %s: %v", user.Email, err)
		}
	}
	return user, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(user.ID, s.tokenExpiry)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}
	return user, token, nil
}
