// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package web

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateForm_DeclarationOrder(t *testing.T) {
	fields := []FormField{
		{Name: "b", Validators: []Validator{Required()}},
		{Name: "a", Validators: []Validator{Required()}},
	}

	errs := ValidateForm(url.Values{}, fields)
	require.Len(t, errs, 2)
	assert.Equal(t, "b", errs[0].Field)
	assert.Equal(t, "a", errs[1].Field)
}

func TestValidateForm_FirstFailurePerField(t *testing.T) {
	fields := []FormField{
		{Name: "password", Validators: []Validator{Required(), Length(8, 128)}},
	}

	errs := ValidateForm(url.Values{}, fields)
	require.Len(t, errs, 1)
	assert.Equal(t, "this field is required", errs[0].Message)

	errs = ValidateForm(url.Values{"password": {"short"}}, fields)
	require.Len(t, errs, 1)
	assert.Equal(t, "must be between 8 and 128 characters long", errs[0].Message)
}

func TestValidateForm_PassingFormIsEmpty(t *testing.T) {
	values := url.Values{
		"username":         {"alice"},
		"email":            {"alice@example.com"},
		"password":         {"correcthorse"},
		"confirm_password": {"correcthorse"},
	}
	assert.Empty(t, ValidateForm(values, registerFormFields()))
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name      string
		validator Validator
		values    url.Values
		value     string
		wantMsg   bool
	}{
		{"required empty", Required(), nil, "", true},
		{"required whitespace", Required(), nil, "   ", true},
		{"required ok", Required(), nil, "x", false},
		{"length short", Length(3, 20), nil, "ab", true},
		{"length long", Length(3, 20), nil, "abcdefghijklmnopqrstu", true},
		{"length lower bound", Length(3, 20), nil, "abc", false},
		{"length upper bound", Length(3, 20), nil, "abcdefghijklmnopqrst", false},
		{"username invalid chars", Username(), nil, "bad name!", true},
		{"username ok", Username(), nil, "alice_1", false},
		{"email missing at", Email(), nil, "nope", true},
		{"email ok", Email(), nil, "a@b.com", false},
		{"equalto mismatch", EqualTo("password"), url.Values{"password": {"one"}}, "two", true},
		{"equalto match", EqualTo("password"), url.Values{"password": {"one"}}, "one", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.validator(tt.values, tt.value)
			if tt.wantMsg {
				assert.NotEmpty(t, msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestRegisterFormFields_ConfirmMustMatch(t *testing.T) {
	values := url.Values{
		"username":         {"alice"},
		"email":            {"alice@example.com"},
		"password":         {"correcthorse"},
		"confirm_password": {"different"},
	}

	errs := ValidateForm(values, registerFormFields())
	require.Len(t, errs, 1)
	assert.Equal(t, "confirm_password", errs[0].Field)
	assert.Equal(t, "field must be equal to password", errs[0].Message)
}

func TestPostFormFields_TitleCeiling(t *testing.T) {
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	values := url.Values{"title": {string(long)}, "content": {"body"}}

	errs := ValidateForm(values, postFormFields())
	require.Len(t, errs, 1)
	assert.Equal(t, "title", errs[0].Field)
}
