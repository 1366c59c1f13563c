// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package web

import (
	"net/http"
	"net/url"

	"github.com/quillpad/quillpad/internal/auth"
	"github.com/quillpad/quillpad/pkg/errutil"
)

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := CurrentUser(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderer.render(w, http.StatusOK, "register.html", s.newPageData(w, r, "Register"))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := CurrentUser(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderServerError(w, r, err)
		return
	}

	renderAgain := func(errs auth.FieldErrors) {
		data := s.newPageData(w, r, "Register")
		data.Form = formValues(r, "username", "email")
		data.Errors = errs
		s.renderer.render(w, http.StatusUnprocessableEntity, "register.html", data)
	}

	if errs := ValidateForm(r.Form, registerFormFields()); len(errs) > 0 {
		renderAgain(errs)
		return
	}

	_, err := s.auth.Register(r.Context(),
		r.FormValue("username"), r.FormValue("email"), r.FormValue("password"))
	if err != nil {
		if fieldErrs, ok := auth.AsFieldErrors(err); ok {
			renderAgain(fieldErrs)
			return
		}
		s.renderServerError(w, r, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RegistrationsTotal.Inc()
	}
	addFlash(w, r, "Your account has been created! You are now able to log in", FlashSuccess)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := CurrentUser(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := s.newPageData(w, r, "Login")
	if next := r.URL.Query().Get("next"); localPath(next) {
		data.Form = url.Values{"next": {next}}
	}
	s.renderer.render(w, http.StatusOK, "login.html", data)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := CurrentUser(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderServerError(w, r, err)
		return
	}

	renderAgain := func(errs auth.FieldErrors, flashes ...Flash) {
		data := s.newPageData(w, r, "Login")
		data.Form = formValues(r, "email", "next")
		data.Errors = errs
		data.Flashes = append(data.Flashes, flashes...)
		s.renderer.render(w, http.StatusUnprocessableEntity, "login.html", data)
	}

	if errs := ValidateForm(r.Form, loginFormFields()); len(errs) > 0 {
		renderAgain(errs)
		return
	}

	session, token, err := s.auth.Login(r.Context(),
		r.FormValue("email"), r.FormValue("password"), r.FormValue("remember") == "on")
	if err != nil {
		if errutil.Code(err) == "AUTH_INVALID_CREDENTIALS" {
			if s.metrics != nil {
				s.metrics.LoginsTotal.WithLabelValues("failure").Inc()
			}
			renderAgain(nil, Flash{Message: "Login Unsuccessful. Please check email and password", Category: FlashDanger})
			return
		}
		s.renderServerError(w, r, err)
		return
	}

	if s.metrics != nil {
		s.metrics.LoginsTotal.WithLabelValues("success").Inc()
	}
	setSessionCookie(w, token, session)

	target := "/"
	if next := r.FormValue("next"); localPath(next) {
		target = next
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if _, session, ok := CurrentUser(r.Context()); ok {
		if err := s.auth.Logout(r.Context(), session.ID); err != nil {
			s.logger.Warn("logout cleanup failed", "session_id", session.ID.String(), "error", err)
		}
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
