// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

// LocalStore writes images to a directory on disk. The web server mounts
// the directory under /static/profile_pics/.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the directory if needed and returns a store.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, oops.Code("STORAGE_DIR_FAILED").
			With("dir", dir).
			Wrap(err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the image to dir/name.
func (s *LocalStore) Save(_ context.Context, name string, content io.Reader) error {
	path := filepath.Join(s.dir, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		return oops.Code("STORAGE_SAVE_FAILED").
			With("path", path).
			Wrap(err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(path)
		return oops.Code("STORAGE_SAVE_FAILED").
			With("path", path).
			Wrap(err)
	}
	if err := f.Close(); err != nil {
		return oops.Code("STORAGE_SAVE_FAILED").
			With("path", path).
			Wrap(err)
	}
	return nil
}

// URL returns the path the web server serves the image from.
func (s *LocalStore) URL(name string) string {
	return "/static/profile_pics/" + name
}

// Dir returns the directory images are stored in.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Compile-time interface check.
var _ ImageStore = (*LocalStore)(nil)
