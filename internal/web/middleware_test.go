// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quillpad/quillpad/internal/auth"
)

func TestLocalPath(t *testing.T) {
	tests := []struct {
		next string
		want bool
	}{
		{"", false},
		{"/", true},
		{"/account", true},
		{"/post/new?draft=1", true},
		{"relative", false},
		{"//evil.example.com/", false},
		{`/\evil.example.com`, false},
		{"https://evil.example.com/", false},
		{"javascript:alert(1)", false},
	}

	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			assert.Equal(t, tt.want, localPath(tt.next))
		})
	}
}

func TestLoadSession_ValidCookie(t *testing.T) {
	env := newTestEnv(t)
	user := webTestUser(t)
	cookie := env.login(t, user)
	env.posts.On("ListPage", mock.Anything, 1, 5).Return(emptyPage(), nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logout")
	assert.NotContains(t, rec.Body.String(), ">Login<")
}

func TestLoadSession_BadCookieClearedAndAnonymous(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.On("GetByTokenHash", mock.Anything, mock.Anything).Return(nil, auth.ErrNotFound)
	env.posts.On("ListPage", mock.Anything, 1, 5).Return(emptyPage(), nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "forged"})
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ">Login<")

	cleared := sessionCookieFrom(rec)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestRequireLogin_RedirectsWithNext(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/post/new", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fpost%2Fnew", rec.Header().Get("Location"))

	flashes := responseFlashes(t, rec)
	require.Len(t, flashes, 1)
	assert.Equal(t, FlashInfo, flashes[0].Category)
}
