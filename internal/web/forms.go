// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package web

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/quillpad/quillpad/internal/auth"
)

// Validator checks a single submitted value. It returns a message, or ""
// when the value passes. values carries the whole form for cross-field
// checks.
type Validator func(values url.Values, value string) string

// FormField pairs a field name with its validators. Validators run in
// the order written; a field stops at its first failure.
type FormField struct {
	Name       string
	Validators []Validator
}

// ValidateForm runs every field's validators in declaration order and
// collects at most one error per field.
func ValidateForm(values url.Values, fields []FormField) auth.FieldErrors {
	var errs auth.FieldErrors
	for _, field := range fields {
		value := values.Get(field.Name)
		for _, validate := range field.Validators {
			if msg := validate(values, value); msg != "" {
				errs = append(errs, auth.FieldError{Field: field.Name, Message: msg})
				break
			}
		}
	}
	return errs
}

// Required rejects empty or whitespace-only values.
func Required() Validator {
	return func(_ url.Values, value string) string {
		if strings.TrimSpace(value) == "" {
			return "this field is required"
		}
		return ""
	}
}

// Length enforces inclusive length bounds.
func Length(min, max int) Validator {
	return func(_ url.Values, value string) string {
		if len(value) < min || len(value) > max {
			return fmt.Sprintf("must be between %d and %d characters long", min, max)
		}
		return ""
	}
}

// Username applies the account username rules.
func Username() Validator {
	return func(_ url.Values, value string) string {
		if err := auth.ValidateUsername(value); err != nil {
			return err.Error()
		}
		return ""
	}
}

// Email rejects values that are not a plain email address.
func Email() Validator {
	return func(_ url.Values, value string) string {
		if err := auth.ValidateEmail(value); err != nil {
			return "invalid email address"
		}
		return ""
	}
}

// EqualTo rejects values differing from another submitted field.
func EqualTo(other string) Validator {
	return func(values url.Values, value string) string {
		if value != values.Get(other) {
			return "field must be equal to " + other
		}
		return ""
	}
}

// Form layouts. The field order here is the order errors render in.

func registerFormFields() []FormField {
	return []FormField{
		{Name: "username", Validators: []Validator{Required(), Username()}},
		{Name: "email", Validators: []Validator{Required(), Email()}},
		{Name: "password", Validators: []Validator{Required(), Length(auth.MinPasswordLength, auth.MaxPasswordLength)}},
		{Name: "confirm_password", Validators: []Validator{Required(), EqualTo("password")}},
	}
}

func loginFormFields() []FormField {
	return []FormField{
		{Name: "email", Validators: []Validator{Required(), Email()}},
		{Name: "password", Validators: []Validator{Required()}},
	}
}

func accountFormFields() []FormField {
	return []FormField{
		{Name: "username", Validators: []Validator{Required(), Username()}},
		{Name: "email", Validators: []Validator{Required(), Email()}},
	}
}

func postFormFields() []FormField {
	return []FormField{
		{Name: "title", Validators: []Validator{Required(), Length(1, 100)}},
		{Name: "content", Validators: []Validator{Required()}},
	}
}

func resetRequestFormFields() []FormField {
	return []FormField{
		{Name: "email", Validators: []Validator{Required(), Email()}},
	}
}

func resetPasswordFormFields() []FormField {
	return []FormField{
		{Name: "password", Validators: []Validator{Required(), Length(auth.MinPasswordLength, auth.MaxPasswordLength)}},
		{Name: "confirm_password", Validators: []Validator{Required(), EqualTo("password")}},
	}
}
