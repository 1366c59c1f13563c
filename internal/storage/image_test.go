// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package storage

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpad/quillpad/internal/auth"
)

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantExt  string
		wantErr  bool
	}{
		{name: "jpg", filename: "avatar.jpg", size: 1024, wantExt: ".jpg"},
		{name: "jpeg normalized to jpg", filename: "avatar.JPEG", size: 1024, wantExt: ".jpg"},
		{name: "png", filename: "avatar.png", size: 1024, wantExt: ".png"},
		{name: "gif", filename: "avatar.gif", size: 1024, wantExt: ".gif"},
		{name: "uppercase extension", filename: "AVATAR.PNG", size: 1024, wantExt: ".png"},
		{name: "at ceiling", filename: "avatar.jpg", size: MaxImageBytes, wantExt: ".jpg"},
		{name: "over ceiling", filename: "avatar.jpg", size: MaxImageBytes + 1, wantErr: true},
		{name: "svg rejected", filename: "avatar.svg", size: 1024, wantErr: true},
		{name: "executable rejected", filename: "avatar.exe", size: 1024, wantErr: true},
		{name: "no extension", filename: "avatar", size: 1024, wantErr: true},
		{name: "double extension uses last", filename: "avatar.jpg.exe", size: 1024, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := ValidateImage(tt.filename, tt.size)
			if tt.wantErr {
				require.Error(t, err)
				fieldErrs, ok := auth.AsFieldErrors(err)
				require.True(t, ok, "expected field errors, got %v", err)
				assert.NotEmpty(t, fieldErrs.ByField("picture"))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentType("abc.jpg"))
	assert.Equal(t, "image/png", ContentType("abc.png"))
	assert.Equal(t, "image/gif", ContentType("abc.gif"))
	assert.Equal(t, "application/octet-stream", ContentType("abc.bin"))
}

func TestRandomImageName(t *testing.T) {
	name, err := RandomImageName(".jpg")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}\.jpg$`), name)

	other, err := RandomImageName(".jpg")
	require.NoError(t, err)
	assert.NotEqual(t, name, other, "names should be random")
}
