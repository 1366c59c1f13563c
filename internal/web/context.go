// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

// Package web serves the HTML application over HTTP.
package web

import (
	"context"

	"github.com/quillpad/quillpad/internal/auth"
)

// ctxKey is unexported so only this package can place values.
type ctxKey int

const sessionCtxKey ctxKey = iota

// requestSession carries the authenticated user and session through a
// request. It is attached explicitly by the session middleware; nothing
// reads ambient globals.
type requestSession struct {
	user    *auth.User
	session *auth.Session
}

// withSession returns a context carrying the authenticated user and session.
func withSession(ctx context.Context, user *auth.User, session *auth.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, &requestSession{user: user, session: session})
}

// CurrentUser returns the authenticated user and session for this request,
// or ok=false for anonymous requests.
func CurrentUser(ctx context.Context) (*auth.User, *auth.Session, bool) {
	rs, ok := ctx.Value(sessionCtxKey).(*requestSession)
	if !ok || rs.user == nil {
		return nil, nil, false
	}
	return rs.user, rs.session, true
}
