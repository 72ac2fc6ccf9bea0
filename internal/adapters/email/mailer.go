package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"societyattendance/internal/domain"
)

// SESConfig holds AWS SES credentials and region.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// MailerConfig selects and configures an outbound mail provider.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// NewMailer builds a mailer for the configured provider. "ses" sends through
// AWS SES; anything else logs and discards, which keeps local development
// working without credentials.
func NewMailer(config MailerConfig) (domain.Mailer, error) {
	if config.Provider != "ses" {
		if config.Provider != "noop" {
			log.Printf("[MAILER] unknown provider %q, falling back to noop", config.Provider)
		}
		return &noopMailer{}, nil
	}
	if config.SES.InsecureSkipVerify {
		log.Printf("[MAILER] WARNING: TLS certificate verification disabled for SES; development only")
	}
	awsCfg := aws.Config{
		Region: config.SES.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(config.SES.AccessKeyID, config.SES.SecretAccessKey, ""),
		),
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: config.SES.InsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		},
	}
	return &sesMailer{
		client: ses.NewFromConfig(awsCfg),
		source: formatSource(config.FromName, config.FromAddress),
	}, nil
}

func formatSource(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}

type sesMailer struct {
	client *ses.Client
	source string
}

func (s *sesMailer) Send(to, subject, html, text string) error {
	body := &types.Body{}
	if html != "" {
		body.Html = utf8Content(html)
	}
	if text != "" {
		body.Text = utf8Content(text)
	}
	out, err := s.client.SendEmail(context.Background(), &ses.SendEmailInput{
		Source:      aws.String(s.source),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: utf8Content(subject),
			Body:    body,
		},
	})
	if err != nil {
		return fmt.Errorf("send email via ses: %w", err)
	}
	log.Printf("[MAILER] sent via SES, message id %s", aws.ToString(out.MessageId))
	return nil
}

func utf8Content(data string) *types.Content {
	return &types.Content{Data: aws.String(data), Charset: aws.String("UTF-8")}
}

type noopMailer struct{}

func (n *noopMailer) Send(to, subject, html, text string) error {
	log.Printf("[MAILER] noop: would send %q to %s", subject, to)
	return nil
}
