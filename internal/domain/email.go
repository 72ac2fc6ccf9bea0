package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// OtpEmailData holds data for the verification code email.
type OtpEmailData struct {
	Email            string
	Name             string
	Code             string
	ExpiresInMinutes int
}

// WelcomeEmailData holds data for the post-signup welcome email.
type WelcomeEmailData struct {
	Email string
	Name  string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendOtp(ctx context.Context, data *OtpEmailData) error
	SendWelcome(ctx context.Context, data *WelcomeEmailData) error
}
