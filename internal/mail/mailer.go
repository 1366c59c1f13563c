// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

// Package mail sends transactional email over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/oops"
	gomail "github.com/wneessen/go-mail"

	"github.com/quillpad/quillpad/internal/auth"
)

// resetSubject is the subject line for password reset mail.
const resetSubject = "Password Reset Request"

// sender abstracts the go-mail client so tests can capture messages
// without an SMTP server.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// Config holds SMTP settings and the external base URL used to build
// links in outgoing mail.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string
}

// Mailer sends account email over SMTP. It implements auth.ResetMailer.
type Mailer struct {
	client  sender
	from    string
	baseURL string
	logger  *slog.Logger
}

// NewMailer creates a Mailer from SMTP settings.
func NewMailer(cfg Config, logger *slog.Logger) (*Mailer, error) {
	if cfg.From == "" {
		return nil, oops.Code("MAIL_CONFIG_INVALID").Errorf("from address is required")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
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
		return nil, oops.Code("MAIL_CLIENT_FAILED").
			With("host", cfg.Host).
			Wrap(err)
	}

	return &Mailer{
		client:  client,
		from:    cfg.From,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}, nil
}

// ResetURL builds the link a reset email points at.
func ResetURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/reset_password/" + token
}

// SendPasswordReset emails a reset link to the user.
func (m *Mailer) SendPasswordReset(ctx context.Context, user *auth.User, token string) error {
	msg, err := buildResetMessage(m.from, user.Email, ResetURL(m.baseURL, token))
	if err != nil {
		return err
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return oops.Code("MAIL_SEND_FAILED").
			With("operation", "send password reset").
			Wrap(err)
	}

	m.logger.Info("password reset email sent", "user_id", user.ID.String())
	return nil
}

// buildResetMessage constructs the reset email.
func buildResetMessage(from, to, resetURL string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, oops.Code("MAIL_BUILD_FAILED").With("field", "from").Wrap(err)
	}
	if err := msg.To(to); err != nil {
		return nil, oops.Code("MAIL_BUILD_FAILED").With("field", "to").Wrap(err)
	}
	msg.Subject(resetSubject)
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"To reset your password, visit the following link:\n%s\n\n"+
			"If you did not make this request then simply ignore this email and no changes will be made.\n",
		resetURL))
	return msg, nil
}

// Compile-time interface check.
var _ auth.ResetMailer = (*Mailer)(nil)
