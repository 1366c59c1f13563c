// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package auth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// FieldError describes a validation failure attached to a single form field.
// Field-level errors are returned to the caller for re-display and are never
// fatal.
type FieldError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors aggregates validation failures across fields while preserving
// submission order.
type FieldErrors []FieldError

// Error implements the error interface.
func (e FieldErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// ByField returns the first error message for the named field, or "" when
// the field validated cleanly.
func (e FieldErrors) ByField(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// AsFieldErrors unwraps err into FieldErrors if it carries any.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	var single FieldError
	if errors.As(err, &single) {
		return FieldErrors{single}, true
	}
	return nil, false
}
