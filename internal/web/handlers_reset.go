// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quillpad/quillpad/internal/auth"
)

// resetRequestedMessage is shown whether or not the email has an account,
// so the form cannot be used to probe for registered addresses.
const resetRequestedMessage = "If an account with that email exists, an email has been sent with instructions to reset your password."

func (s *Server) handleResetRequestForm(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := CurrentUser(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderer.render(w, http.StatusOK, "reset_request.html", s.newPageData(w, r, "Reset Password"))
}

func (s *Server) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := CurrentUser(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderServerError(w, r, err)
		return
	}

	if errs := ValidateForm(r.Form, resetRequestFormFields()); len(errs) > 0 {
		data := s.newPageData(w, r, "Reset Password")
		data.Form = formValues(r, "email")
		data.Errors = errs
		s.renderer.render(w, http.StatusUnprocessableEntity, "reset_request.html", data)
		return
	}

	if err := s.reset.RequestReset(r.Context(), r.FormValue("email")); err != nil {
		s.renderServerError(w, r, err)
		return
	}

	if s.metrics != nil {
		s.metrics.ResetRequestsTotal.Inc()
	}
	addFlash(w, r, resetRequestedMessage, FlashInfo)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// redirectBadToken flashes a reason specific to how the token failed and
// sends the user back to the request form.
func (s *Server) redirectBadToken(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		addFlash(w, r, "That token has expired. Please request a new one.", FlashWarning)
	case errors.Is(err, auth.ErrTokenMalformed):
		addFlash(w, r, "That is an invalid token. Please request a new one.", FlashWarning)
	default:
		return false
	}
	http.Redirect(w, r, "/reset_password", http.StatusSeeOther)
	return true
}

func (s *Server) handleResetConfirmForm(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := CurrentUser(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if _, err := s.reset.VerifyToken(r.Context(), chi.URLParam(r, "token")); err != nil {
		if s.redirectBadToken(w, r, err) {
			return
		}
		s.renderServerError(w, r, err)
		return
	}

	s.renderer.render(w, http.StatusOK, "reset_password.html", s.newPageData(w, r, "Reset Password"))
}

func (s *Server) handleResetConfirm(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := CurrentUser(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderServerError(w, r, err)
		return
	}

	if errs := ValidateForm(r.Form, resetPasswordFormFields()); len(errs) > 0 {
		data := s.newPageData(w, r, "Reset Password")
		data.Errors = errs
		s.renderer.render(w, http.StatusUnprocessableEntity, "reset_password.html", data)
		return
	}

	err := s.reset.ResetPassword(r.Context(), chi.URLParam(r, "token"), r.FormValue("password"))
	if err != nil {
		if s.redirectBadToken(w, r, err) {
			return
		}
		s.renderServerError(w, r, err)
		return
	}

	addFlash(w, r, "Your password has been updated! You are now able to log in", FlashSuccess)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
