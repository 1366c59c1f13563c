// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

// Package storage persists uploaded profile images.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"path/filepath"
	"strings"

	"github.com/quillpad/quillpad/internal/auth"
)

// MaxImageBytes is the upload size ceiling for profile images: 2 MiB.
// Large enough for any reasonable avatar, small enough to keep a
// multipart request from tying up the server.
const MaxImageBytes = 2 << 20

// imageNameBytes of randomness per stored image name.
const imageNameBytes = 8

// allowedExtensions for profile images. Everything else is rejected
// before any bytes are written.
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// ImageStore saves profile images and resolves their public URLs.
type ImageStore interface {
	Save(ctx context.Context, name string, content io.Reader) error
	URL(name string) string
}

// ValidateImage checks the original filename's extension and the declared
// size. It returns the normalized extension for the stored copy.
func ValidateImage(filename string, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", auth.FieldErrors{{
			Field:   "picture",
			Message: "images must be jpg, png, or gif",
		}}
	}
	if size > MaxImageBytes {
		return "", auth.FieldErrors{{
			Field:   "picture",
			Message: "images must be 2 MB or smaller",
		}}
	}
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	return ext, nil
}

// ContentType returns the MIME type for a stored image name.
func ContentType(name string) string {
	if ct, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// RandomImageName generates a random hex name with the given extension.
// The original filename never reaches disk or bucket.
func RandomImageName(ext string) (string, error) {
	buf := make([]byte, imageNameBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err //nolint:wrapcheck // crypto/rand failure is already terminal
	}
	return hex.EncodeToString(buf) + ext, nil
}
