// Package mail provides the SMTP implementation of the sweep's email sender.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/parkhurst/casetrack-api/internal/config"
)

// sendTimeout bounds a single SMTP exchange. A hung mail server must never
// stall the sweep's in-app dispatch path.
const sendTimeout = 15 * time.Second

// SMTPMailer sends notification emails over SMTP. Sends are fire-and-forget
// from the engine's perspective: the caller logs failures and moves on.
type SMTPMailer struct {
	client *gomail.Client
	from   string
	logger *slog.Logger
}

// NewSMTPMailer creates a mailer from the SMTP configuration.
// If logger is nil, a default logger will be used.
func NewSMTPMailer(cfg config.SMTPConfig, logger *slog.Logger) (*SMTPMailer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTimeout(sendTimeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &SMTPMailer{
		client: client,
		from:   cfg.From,
		logger: logger.With(slog.String("component", "smtp_mailer")),
	}, nil
}

// Send delivers one plain-text message to the given recipients.
func (m *SMTPMailer) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients given")
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address %q: %w", m.from, err)
	}
	if err := msg.To(to...); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Debug("email sent",
		slog.Int("recipients", len(to)),
		slog.String("subject", subject))
	return nil
}
