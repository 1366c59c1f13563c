// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpad/quillpad/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.Flags(f)
	return f
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	f := newFlags(t)
	require.NoError(t, f.Parse([]string{"--auth.token_secret=" + testSecret}))

	cfg, err := config.Load("", f)
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:8000", cfg.Server.BaseURL)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, strings.TrimSpace(`
server:
  addr: ":9090"
auth:
  token_secret: `+testSecret+`
mail:
  port: 2525
`))

	f := newFlags(t)
	require.NoError(t, f.Parse(nil))

	cfg, err := config.Load(path, f)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 2525, cfg.Mail.Port)
	// Keys absent from the file keep flag defaults.
	assert.Equal(t, "local", cfg.Storage.Backend)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeConfigFile(t, strings.TrimSpace(`
server:
  addr: ":9090"
auth:
  token_secret: `+testSecret+`
`))

	f := newFlags(t)
	require.NoError(t, f.Parse([]string{"--server.addr=:7070"}))

	cfg, err := config.Load(path, f)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	f := newFlags(t)
	require.NoError(t, f.Parse(nil))

	_, err := config.Load("/nonexistent/config.yaml", f)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Server: config.Server{
				Addr:    ":8000",
				BaseURL: "http://localhost:8000",
			},
			DB:      config.DB{URL: "postgres://localhost:5432/quillpad"},
			Auth:    config.Auth{TokenSecret: testSecret},
			Storage: config.Storage{Backend: "local", LocalDir: "data/profile_pics"},
			Log:     config.Log{Format: "json", Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantMsg string
	}{
		{
			name:   "valid config",
			mutate: func(*config.Config) {},
		},
		{
			name:    "missing addr",
			mutate:  func(c *config.Config) { c.Server.Addr = "" },
			wantMsg: "server.addr",
		},
		{
			name:    "missing database url",
			mutate:  func(c *config.Config) { c.DB.URL = "" },
			wantMsg: "db.url",
		},
		{
			name:    "short token secret",
			mutate:  func(c *config.Config) { c.Auth.TokenSecret = "too-short" },
			wantMsg: "token_secret",
		},
		{
			name:    "unknown storage backend",
			mutate:  func(c *config.Config) { c.Storage.Backend = "floppy" },
			wantMsg: "storage.backend",
		},
		{
			name: "s3 backend requires bucket",
			mutate: func(c *config.Config) {
				c.Storage.Backend = "s3"
				c.Storage.S3Bucket = ""
			},
			wantMsg: "s3_bucket",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *config.Config) { c.Log.Format = "xml" },
			wantMsg: "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}
