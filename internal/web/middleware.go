// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package web

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quillpad/quillpad/internal/auth"
)

// sessionCookie names the login session cookie. Its value is the plaintext
// session token; only its hash is stored server side.
const sessionCookie = "qp_session"

// setSessionCookie writes the session cookie. Remembered sessions persist
// until the session expiry; others are browser-session cookies.
func setSessionCookie(w http.ResponseWriter, token string, session *auth.Session) {
	cookie := &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if session.Remember {
		cookie.Expires = session.ExpiresAt
	}
	http.SetCookie(w, cookie)
}

// clearSessionCookie expires the session cookie.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// loadSession resolves the session cookie to a user and attaches both to the
// request context. Requests with no cookie, or a stale or forged token,
// proceed anonymously.
func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, user, err := s.auth.ValidateSession(r.Context(), cookie.Value)
		if err != nil {
			clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), user, session)))
	})
}

// requireLogin redirects anonymous requests to the login page, carrying the
// original path so login can return the user to it.
func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := CurrentUser(r.Context()); !ok {
			addFlash(w, r, "Please log in to access this page.", FlashInfo)
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// instrument records per-route request counts and logs each request.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		if s.metrics != nil {
			s.metrics.HTTPRequestsTotal.
				WithLabelValues(route, strconv.Itoa(rec.status)).
				Inc()
		}
		s.logger.Debug("request handled",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// localPath reports whether next is a safe same-site redirect target. Only
// absolute paths within this site qualify; anything that could leave the
// origin (scheme, host, protocol-relative prefix) is rejected.
func localPath(next string) bool {
	if next == "" || next[0] != '/' {
		return false
	}
	if len(next) > 1 && (next[1] == '/' || next[1] == '\\') {
		return false
	}
	u, err := url.Parse(next)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
