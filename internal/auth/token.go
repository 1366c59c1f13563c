// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// TokenPurpose tags a signed token with the intent it was issued for.
// Verification rejects tokens presented for a different purpose.
type TokenPurpose string

// PurposePasswordReset marks tokens issued for the password reset flow.
const PurposePasswordReset TokenPurpose = "password_reset"

// ResetTokenValidity is how long a password reset token stays usable.
const ResetTokenValidity = 30 * time.Minute

// MinTokenSecretLen is the minimum signing secret length in bytes.
const MinTokenSecretLen = 32

// Token verification failures. Expired and malformed tokens are reported
// distinctly so callers can log them apart, even though the user-facing
// message is identical for both.
var (
	ErrTokenMalformed = errors.New("token malformed or forged")
	ErrTokenExpired   = errors.New("token expired")
)

// tokenClaims is the signed payload: subject identity, issuance time,
// expiry, and purpose tag. The payload is legible to anyone holding the
// token; the HMAC signature makes it unforgeable and unmodifiable.
type tokenClaims struct {
	jwt.RegisteredClaims
	Purpose TokenPurpose `json:"purpose"`
}

// TokenService issues and verifies stateless signed tokens binding a user
// identity to an intent. Tokens substitute for server-held intermediate
// state; verification is pure and has no side effects.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a TokenService with the process-wide signing
// secret. The secret must be at least MinTokenSecretLen bytes.
func NewTokenService(secret []byte) (*TokenService, error) {
	return NewTokenServiceWithClock(secret, time.Now)
}

// NewTokenServiceWithClock creates a TokenService with an injectable clock.
// Used by tests to simulate expiry without sleeping.
func NewTokenServiceWithClock(secret []byte, now func() time.Time) (*TokenService, error) {
	if len(secret) < MinTokenSecretLen {
		return nil, oops.Code("TOKEN_SECRET_TOO_SHORT").
			With("min_bytes", MinTokenSecretLen).
			Errorf("token signing secret must be at least %d bytes", MinTokenSecretLen)
	}
	if now == nil {
		return nil, oops.Code("TOKEN_CLOCK_REQUIRED").Errorf("clock function is required")
	}
	return &TokenService{secret: secret, now: now}, nil
}

// Issue creates a URL-safe signed token for the user and purpose, valid for
// the given window.
func (s *TokenService) Issue(userID ulid.ULID, purpose TokenPurpose, validity time.Duration) (string, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return "", oops.Code("TOKEN_ISSUE_FAILED").Errorf("user ID cannot be zero")
	}
	if validity <= 0 {
		return "", oops.Code("TOKEN_ISSUE_FAILED").
			With("validity", validity.String()).
			Errorf("validity window must be positive")
	}

	issuedAt := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(validity)),
		},
		Purpose: purpose,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", oops.Code("TOKEN_ISSUE_FAILED").
			With("purpose", string(purpose)).
			Wrap(err)
	}
	return signed, nil
}

// Verify checks the token's signature, expiry, and purpose, and returns the
// subject user identity. Returns ErrTokenExpired when the validity window
// has elapsed and ErrTokenMalformed for every other failure.
func (s *TokenService) Verify(token string, purpose TokenPurpose) (ulid.ULID, error) {
	if token == "" {
		return ulid.ULID{}, oops.Code("TOKEN_INVALID").Wrap(ErrTokenMalformed)
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(_ *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ulid.ULID{}, oops.Code("TOKEN_EXPIRED").Wrap(ErrTokenExpired)
		}
		return ulid.ULID{}, oops.Code("TOKEN_INVALID").Wrap(ErrTokenMalformed)
	}
	if !parsed.Valid {
		return ulid.ULID{}, oops.Code("TOKEN_INVALID").Wrap(ErrTokenMalformed)
	}
	if claims.Purpose != purpose {
		return ulid.ULID{}, oops.Code("TOKEN_PURPOSE_MISMATCH").
			With("expected", string(purpose)).
			With("actual", string(claims.Purpose)).
			Wrap(ErrTokenMalformed)
	}

	userID, err := ulid.Parse(claims.Subject)
	if err != nil {
		return ulid.ULID{}, oops.Code("TOKEN_INVALID").
			With("subject", claims.Subject).
			Wrap(ErrTokenMalformed)
	}
	return userID, nil
}
