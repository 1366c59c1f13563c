// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// ResetMailer delivers a password reset link to a user's registered address.
// Implementations live outside this package (SMTP in internal/mail).
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, user *User, token string) error
}

// PasswordResetService handles the password reset flow: issuing a signed
// reset token, dispatching the notification, and applying a verified reset.
type PasswordResetService struct {
	users  UserRepository
	tokens *TokenService
	hasher PasswordHasher
	mailer ResetMailer
	logger *slog.Logger
}

// NewPasswordResetService creates a new PasswordResetService.
func NewPasswordResetService(users UserRepository, tokens *TokenService, hasher PasswordHasher, mailer ResetMailer) (*PasswordResetService, error) {
	return NewPasswordResetServiceWithLogger(users, tokens, hasher, mailer, slog.Default())
}

// NewPasswordResetServiceWithLogger creates a new PasswordResetService with
// an explicit logger.
func NewPasswordResetServiceWithLogger(users UserRepository, tokens *TokenService, hasher PasswordHasher, mailer ResetMailer, logger *slog.Logger) (*PasswordResetService, error) {
	if users == nil {
		return nil, oops.Code("RESET_SERVICE_INVALID").Errorf("users repository is required")
	}
	if tokens == nil {
		return nil, oops.Code("RESET_SERVICE_INVALID").Errorf("token service is required")
	}
	if hasher == nil {
		return nil, oops.Code("RESET_SERVICE_INVALID").Errorf("password hasher is required")
	}
	if mailer == nil {
		return nil, oops.Code("RESET_SERVICE_INVALID").Errorf("mailer is required")
	}
	if logger == nil {
		return nil, oops.Code("RESET_SERVICE_INVALID").Errorf("logger is required")
	}
	return &PasswordResetService{users: users, tokens: tokens, hasher: hasher, mailer: mailer, logger: logger}, nil
}

// RequestReset requests a password reset for a user by email.
// If the email matches a user, a signed reset token is issued and mailed.
// If it doesn't, RequestReset still returns nil so the caller's response is
// identical either way and cannot be used for email enumeration.
// Mail delivery failures are logged but deliberately not surfaced for the
// same reason.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return oops.Code("RESET_REQUEST_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	token, err := s.tokens.Issue(user.ID, PurposePasswordReset, ResetTokenValidity)
	if err != nil {
		return oops.Code("RESET_REQUEST_FAILED").
			With("operation", "issue reset token").
			Wrap(err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user, token); err != nil {
		s.logger.Error("reset email delivery failed",
			"user_id", user.ID.String(),
			"error", err)
		return nil
	}

	s.logger.Info("reset email dispatched", "user_id", user.ID.String())
	return nil
}

// VerifyToken verifies a reset token and returns the subject user.
// Verification is pure: no state changes, and the token stays valid until
// its deadline.
func (s *PasswordResetService) VerifyToken(ctx context.Context, token string) (*User, error) {
	userID, err := s.tokens.Verify(token, PurposePasswordReset)
	if err != nil {
		return nil, err // carries TOKEN_EXPIRED or TOKEN_INVALID
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("TOKEN_INVALID").
				With("user_id", userID.String()).
				Wrap(ErrTokenMalformed)
		}
		return nil, oops.Code("RESET_VERIFY_FAILED").
			With("operation", "get user by id").
			Wrap(err)
	}
	return user, nil
}

// ResetPassword applies a verified reset: hashes the new password and
// overwrites the stored hash.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return oops.Code("RESET_PASSWORD_EMPTY").Errorf("new password cannot be empty")
	}

	user, err := s.VerifyToken(ctx, token)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "update password").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	s.logger.Info("password reset", "user_id", user.ID.String())
	return nil
}
