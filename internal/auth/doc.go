// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

// Package auth provides the authentication and account-recovery core for
// Quillpad.
//
// # Domain Types
//
// Domain types (User, Session) should be created using their respective
// constructors:
//   - NewUser - creates a User with validated username, email, and hash
//   - NewSession - creates a Session with validated user and expiry
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated types from these
// constructors.
//
// # Services
//
// Service types coordinate domain operations:
//   - Service - registration, login, logout, account updates, sessions
//   - PasswordResetService - token-based password reset flow
//
// Reset tokens are stateless signed credentials issued by TokenService.
// There is no revocation list: a token stays valid until its deadline even
// if a newer one has been requested.
package auth
