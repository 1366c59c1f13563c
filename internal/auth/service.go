// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Service provides registration, login, logout, session validation, and
// account updates.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	hasher   PasswordHasher
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(users UserRepository, sessions SessionRepository, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(users, sessions, hasher, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, sessions SessionRepository, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("sessions repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_SERVICE_INVALID").Errorf("logger is required")
	}
	return &Service{users: users, sessions: sessions, hasher: hasher, logger: logger}, nil
}

// dummyPasswordHash is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register validates the username and email, checks both for uniqueness,
// hashes the password, and creates the user. Validation failures come back
// as FieldErrors for per-field re-display; nothing is written in that case.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {
	var fieldErrs FieldErrors

	if err := ValidateUsername(username); err != nil {
		fieldErrs = append(fieldErrs, FieldError{Field: "username", Message: err.Error()})
	}
	if err := ValidateEmail(email); err != nil {
		fieldErrs = append(fieldErrs, FieldError{Field: "email", Message: "invalid email address"})
	}
	if password == "" {
		fieldErrs = append(fieldErrs, FieldError{Field: "password", Message: "password cannot be empty"})
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	// Pre-check uniqueness for friendly field errors. The storage-level
	// UNIQUE constraints remain authoritative; a concurrent insert between
	// this check and Create still fails cleanly below.
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		fieldErrs = append(fieldErrs, FieldError{Field: "username", Message: "that username is taken"})
	} else if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "get user by username").
			Wrap(err)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		fieldErrs = append(fieldErrs, FieldError{Field: "email", Message: "that email is taken"})
	} else if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(username, email, hash)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "construct user").
			Wrap(err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Unique-violation from a concurrent registration surfaces as a
		// field error just like the pre-check.
		if fe, ok := AsFieldErrors(err); ok {
			return nil, fe
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			With("username", username).
			Wrap(err)
	}

	s.logger.Info("user registered", "user_id", user.ID.String(), "username", user.Username)
	return user, nil
}

// Login authenticates a user by email and creates a session.
// Returns the session, plaintext token, and any error.
// Unknown email and wrong password both fail with AUTH_INVALID_CREDENTIALS
// after a full hash verification, so neither the message nor the timing
// reveals whether the email exists.
func (s *Service) Login(ctx context.Context, email, password string, remember bool) (*Session, string, error) {
	user, lookupErr := s.users.GetByEmail(ctx, email)

	var targetHash string
	var userExists bool

	if lookupErr != nil {
		if errors.Is(lookupErr, ErrNotFound) {
			// Use dummy hash - still perform verification to maintain constant time
			targetHash = dummyPasswordHash
			userExists = false
		} else {
			return nil, "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
		}
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
	}

	token, tokenHash, err := GenerateSessionToken()
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "generate session token").
			Wrap(err)
	}

	expiry := SessionExpiry
	if remember {
		expiry = RememberedSessionExpiry
	}
	session, err := NewSession(user.ID, tokenHash, remember, time.Now().Add(expiry))
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "create session").
			Wrap(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", oops.Code("AUTH_SESSION_CREATE_FAILED").
			With("operation", "persist session").
			Wrap(err)
	}

	s.logger.Info("user logged in", "user_id", user.ID.String(), "remember", remember)
	return session, token, nil
}

// Logout tears down a session unconditionally.
func (s *Service) Logout(ctx context.Context, sessionID ulid.ULID) error {
	err := s.sessions.Delete(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("SESSION_NOT_FOUND").
				With("session_id", sessionID.String()).
				Wrap(err)
		}
		return oops.Code("AUTH_LOGOUT_FAILED").
			With("operation", "delete session").
			With("session_id", sessionID.String()).
			Wrap(err)
	}
	return nil
}

// ValidateSession validates a session token and returns the session and its
// user. Also updates the LastSeenAt timestamp.
func (s *Service) ValidateSession(ctx context.Context, token string) (*Session, *User, error) {
	if token == "" {
		return nil, nil, oops.Code("SESSION_TOKEN_EMPTY").Errorf("session token cannot be empty")
	}

	tokenHash := HashSessionToken(token)

	session, err := s.sessions.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, oops.Code("SESSION_INVALID").Errorf("invalid session token")
		}
		return nil, nil, oops.Code("SESSION_VALIDATE_FAILED").
			With("operation", "get session by token hash").
			Wrap(err)
	}

	if session.IsExpired() {
		return nil, nil, oops.Code("SESSION_EXPIRED").Errorf("session has expired")
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, oops.Code("SESSION_INVALID").Errorf("session user no longer exists")
		}
		return nil, nil, oops.Code("SESSION_VALIDATE_FAILED").
			With("operation", "get session user").
			Wrap(err)
	}

	// Update last seen timestamp (non-blocking, ignore errors)
	now := time.Now()
	_ = s.sessions.UpdateLastSeen(ctx, session.ID, now) //nolint:errcheck // Best effort, validation succeeds regardless

	return session, user, nil
}

// AccountUpdate carries the mutable profile fields for UpdateAccount.
// ImageFile is optional; empty means keep the current image.
type AccountUpdate struct {
	Username  string
	Email     string
	ImageFile string
}

// UpdateAccount changes the user's username, email, and optionally the
// profile image. Username and email are re-validated for uniqueness
// excluding the user themselves.
func (s *Service) UpdateAccount(ctx context.Context, user *User, update AccountUpdate) error {
	var fieldErrs FieldErrors

	if err := ValidateUsername(update.Username); err != nil {
		fieldErrs = append(fieldErrs, FieldError{Field: "username", Message: err.Error()})
	}
	if err := ValidateEmail(update.Email); err != nil {
		fieldErrs = append(fieldErrs, FieldError{Field: "email", Message: "invalid email address"})
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	if update.Username != user.Username {
		if _, err := s.users.GetByUsername(ctx, update.Username); err == nil {
			fieldErrs = append(fieldErrs, FieldError{Field: "username", Message: "that username is taken"})
		} else if !errors.Is(err, ErrNotFound) {
			return oops.Code("AUTH_UPDATE_FAILED").
				With("operation", "get user by username").
				Wrap(err)
		}
	}
	if update.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, update.Email); err == nil {
			fieldErrs = append(fieldErrs, FieldError{Field: "email", Message: "that email is taken"})
		} else if !errors.Is(err, ErrNotFound) {
			return oops.Code("AUTH_UPDATE_FAILED").
				With("operation", "get user by email").
				Wrap(err)
		}
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	user.Username = update.Username
	user.Email = update.Email
	if update.ImageFile != "" {
		user.ImageFile = update.ImageFile
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		if fe, ok := AsFieldErrors(err); ok {
			return fe
		}
		return oops.Code("AUTH_UPDATE_FAILED").
			With("operation", "update user").
			With("user_id", user.ID.String()).
			Wrap(err)
	}

	s.logger.Info("account updated", "user_id", user.ID.String(), "username", user.Username)
	return nil
}
