package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"societyattendance/internal/domain"
)

const (
	otpDigits      = 6
	otpExpiryMins  = 10
	resendCooldown = 60 * time.Second
)

var (
	emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	otpRegexp   = regexp.MustCompile(`^\d{6}$`)
)

type otpService struct {
	otpRepo      domain.OtpRepository
	userRepo     domain.UserRepository
	emailService domain.EmailService
}

// NewOtpService creates an OtpService backed by the given repositories and mailer.
func NewOtpService(otpRepo domain.OtpRepository, userRepo domain.UserRepository, emailService domain.EmailService) domain.OtpService {
	return &otpService{
		otpRepo:      otpRepo,
		userRepo:     userRepo,
		emailService: emailService,
	}
}

func (s *otpService) Send(ctx context.Context, email, name string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("invalid email format: %w", domain.ErrInvalidInput)
	}
	taken, err := s.userRepo.ExistsByAnyEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return domain.ErrEmailTaken
	}
	return s.issue(ctx, email, name)
}

// Resend is Send behind a cooldown: while a code issued within the last
// minute exists the request is rejected instead of replaced.
func (s *otpService) Resend(ctx context.Context, email, name string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("invalid email format: %w", domain.ErrInvalidInput)
	}
	recent, err := s.otpRepo.HasRecent(ctx, email, time.Now().Add(-resendCooldown))
	if err != nil {
		return fmt.Errorf("failed to check resend cooldown: %w", err)
	}
	if recent {
		return domain.ErrRateLimited
	}
	taken, err := s.userRepo.ExistsByAnyEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return domain.ErrEmailTaken
	}
	return s.issue(ctx, email, name)
}

// issue replaces any pending unverified code for the email with a fresh one
// and mails it. If delivery fails the stored row is removed again so a dead
// mailer does not lock the address behind a code nobody received.
func (s *otpService) issue(ctx context.Context, email, name string) error {
	if err := s.otpRepo.DeleteUnverified(ctx, email); err != nil {
		return fmt.Errorf("failed to clear pending codes: %w", err)
	}
	code, err := generateOtpCode(otpDigits)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	otp := &domain.Otp{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(otpExpiryMins * time.Minute),
	}
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}
	data := &domain.OtpEmailData{
		Email:            email,
		Name:             name,
		Code:             code,
		ExpiresInMinutes: otpExpiryMins,
	}
	if err := s.emailService.SendOtp(ctx, data); err != nil {
		if delErr := s.otpRepo.DeleteByID(ctx, otp.ID); delErr != nil {
			return fmt.Errorf("failed to roll back code after send failure: %v: %w", delErr, err)
		}
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (s *otpService) Verify(ctx context.Context, email, code string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	code = strings.TrimSpace(code)
	if !otpRegexp.MatchString(code) {
		return domain.ErrOtpInvalid
	}
	otp, err := s.otpRepo.GetLatestUnverified(ctx, email, code)
	if err != nil {
		return err
	}
	if time.Now().After(otp.ExpiresAt) {
		return domain.ErrOtpExpired
	}
	if err := s.otpRepo.MarkVerified(ctx, otp.ID); err != nil {
		return fmt.Errorf("failed to mark code verified: %w", err)
	}
	return nil
}

func (s *otpService) HasVerified(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	return s.otpRepo.HasVerified(ctx, email)
}

func (s *otpService) Consume(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := s.otpRepo.DeleteVerified(ctx, email); err != nil {
		return fmt.Errorf("failed to consume verified code: %w", err)
	}
	return nil
}

func (s *otpService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.otpRepo.DeleteExpired(ctx, time.Now())
}

func generateOtpCode(digits int) (string, error) {
	b := make([]byte, digits)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b[i] = byte('0' + n.Int64())
	}
	return string(b), nil
}
