// Package email renders and delivers notification emails over SMTP.
package email

import (
	"context"

	"seminar_portal_backend/platform/config"
)

// Message is one rendered outbound email.
type Message struct {
	ToEmail  string
	ToName   string
	Template string
	Subject  string
	Heading  string
	Body     string
	CTALabel string
	CTAURL   string
}

// Sender delivers notification emails.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NoopSender drops messages. Used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, msg Message) error { return nil }

// NewSender builds the configured sender, or a no-op when email is disabled.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
