// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package web

import (
	"net/http"
	"net/url"

	"github.com/quillpad/quillpad/internal/auth"
)

// newPageData builds the render context for the current request: signed-in
// user, queued flashes, and the page title.
func (s *Server) newPageData(w http.ResponseWriter, r *http.Request, title string) *pageData {
	data := &pageData{Title: title, Flashes: popFlashes(w, r)}
	if user, _, ok := CurrentUser(r.Context()); ok {
		data.User = user
	}
	return data
}

// formValues copies the submitted fields a form should re-display.
// Passwords are never echoed back.
func formValues(r *http.Request, names ...string) url.Values {
	values := url.Values{}
	for _, name := range names {
		values.Set(name, r.FormValue(name))
	}
	return values
}

type errorPage struct {
	Heading string
	Message string
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData(w, r, "Page Not Found")
	data.Data = errorPage{
		Heading: "Oops. Page Not Found (404)",
		Message: "That page does not exist. Please try a different location.",
	}
	s.renderer.render(w, http.StatusNotFound, "error.html", data)
}

func (s *Server) renderForbidden(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData(w, r, "Forbidden")
	data.Data = errorPage{
		Heading: "You don't have permission to do that (403)",
		Message: "Please check your account and try again.",
	}
	s.renderer.render(w, http.StatusForbidden, "error.html", data)
}

func (s *Server) renderServerError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	data := s.newPageData(w, r, "Error")
	data.Data = errorPage{
		Heading: "Something went wrong (500)",
		Message: "We're experiencing some trouble on our end. Please try again in the near future.",
	}
	s.renderer.render(w, http.StatusInternalServerError, "error.html", data)
}

// mergeFieldErrors combines validation results, keeping at most one error
// per field with earlier sources winning.
func mergeFieldErrors(first, second auth.FieldErrors) auth.FieldErrors {
	merged := first
	for _, fe := range second {
		if merged.ByField(fe.Field) == "" {
			merged = append(merged, fe)
		}
	}
	return merged
}
