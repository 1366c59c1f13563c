// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

// Package config loads application configuration from an optional YAML
// file layered under command-line flags.
package config

import (
	"fmt"
	"net/url"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config is the full application configuration.
type Config struct {
	Server  Server  `koanf:"server"`
	DB      DB      `koanf:"db"`
	Auth    Auth    `koanf:"auth"`
	Mail    Mail    `koanf:"mail"`
	Storage Storage `koanf:"storage"`
	Log     Log     `koanf:"log"`
}

// Server holds HTTP server settings.
type Server struct {
	Addr        string `koanf:"addr"`
	BaseURL     string `koanf:"base_url"`
	MetricsAddr string `koanf:"metrics_addr"`
}

// DB holds database settings.
type DB struct {
	URL string `koanf:"url"`
}

// Auth holds authentication settings.
type Auth struct {
	// TokenSecret signs password reset tokens. At least 32 bytes.
	TokenSecret string `koanf:"token_secret"`
}

// Mail holds SMTP settings for outgoing mail.
type Mail struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	From     string `koanf:"from"`
}

// Storage holds profile image storage settings.
type Storage struct {
	// Backend selects where uploaded images live: "local" or "s3".
	Backend  string `koanf:"backend"`
	LocalDir string `koanf:"local_dir"`
	S3Bucket string `koanf:"s3_bucket"`
	S3Region string `koanf:"s3_region"`
}

// Log holds logging settings.
type Log struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// minTokenSecretLen matches the token service requirement.
const minTokenSecretLen = 32

// Flags registers every configuration flag on the given flag set. Flag
// defaults double as configuration defaults.
func Flags(f *pflag.FlagSet) {
	f.String("server.addr", ":8000", "HTTP listen address")
	f.String("server.base_url", "http://localhost:8000", "external base URL used in emails")
	f.String("server.metrics_addr", "127.0.0.1:9100", "metrics/health HTTP address (empty = disabled)")
	f.String("db.url", "postgres://localhost:5432/quillpad", "PostgreSQL connection URL")
	f.String("auth.token_secret", "", "secret for signing password reset tokens (min 32 bytes)")
	f.String("mail.host", "localhost", "SMTP host")
	f.Int("mail.port", 587, "SMTP port")
	f.String("mail.username", "", "SMTP username")
	f.String("mail.password", "", "SMTP password")
	f.String("mail.from", "noreply@quillpad.local", "From address for outgoing mail")
	f.String("storage.backend", "local", "image storage backend (local or s3)")
	f.String("storage.local_dir", "data/profile_pics", "directory for locally stored images")
	f.String("storage.s3_bucket", "", "S3 bucket for images (s3 backend)")
	f.String("storage.s3_region", "", "S3 region (s3 backend)")
	f.String("log.format", "json", "log format (json or text)")
	f.String("log.level", "info", "log level (debug, info, warn, error)")
}

// Load builds the configuration: flag defaults, then the YAML file when
// given, then explicitly set flags on top. Callers that need the full
// configuration validate with Validate; commands that only read a subset
// (such as migrate) skip it.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", configFile).
				Wrap(err)
		}
	}

	// Unchanged flags only fill keys the file did not set; changed flags
	// always win.
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}
	return &cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return configErr("server.addr is required")
	}
	if _, err := url.Parse(c.Server.BaseURL); err != nil || c.Server.BaseURL == "" {
		return configErr("server.base_url must be a valid URL")
	}
	if c.DB.URL == "" {
		return configErr("db.url is required")
	}
	if len(c.Auth.TokenSecret) < minTokenSecretLen {
		return configErr(fmt.Sprintf("auth.token_secret must be at least %d bytes", minTokenSecretLen))
	}
	if c.Storage.Backend != "local" && c.Storage.Backend != "s3" {
		return configErr(fmt.Sprintf("storage.backend must be local or s3, got %q", c.Storage.Backend))
	}
	if c.Storage.Backend == "s3" && c.Storage.S3Bucket == "" {
		return configErr("storage.s3_bucket is required for the s3 backend")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return configErr(fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}
	return nil
}

func configErr(msg string) error {
	return oops.Code("CONFIG_INVALID").Errorf("%s", msg)
}
