// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package mail

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"

	"github.com/quillpad/quillpad/internal/auth"
)

// captureSender records messages instead of dialing an SMTP server.
type captureSender struct {
	messages []*gomail.Msg
	err      error
}

func (c *captureSender) DialAndSendWithContext(_ context.Context, messages ...*gomail.Msg) error {
	if c.err != nil {
		return c.err
	}
	c.messages = append(c.messages, messages...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMailer(client sender) *Mailer {
	return &Mailer{
		client:  client,
		from:    "noreply@quillpad.local",
		baseURL: "http://localhost:8000",
		logger:  discardLogger(),
	}
}

func TestNewMailer(t *testing.T) {
	t.Run("requires from address", func(t *testing.T) {
		_, err := NewMailer(Config{Host: "localhost", Port: 587}, discardLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "from address")
	})

	t.Run("creates mailer", func(t *testing.T) {
		m, err := NewMailer(Config{
			Host:    "smtp.example.com",
			Port:    587,
			From:    "noreply@quillpad.local",
			BaseURL: "https://quillpad.example/",
		}, discardLogger())
		require.NoError(t, err)
		assert.Equal(t, "https://quillpad.example", m.baseURL)
	})
}

func TestResetURL(t *testing.T) {
	assert.Equal(t,
		"http://localhost:8000/reset_password/tok123",
		ResetURL("http://localhost:8000", "tok123"))
	assert.Equal(t,
		"http://localhost:8000/reset_password/tok123",
		ResetURL("http://localhost:8000/", "tok123"))
}

func TestMailer_SendPasswordReset(t *testing.T) {
	user := &auth.User{
		ID:       ulid.Make(),
		Username: "corey",
		Email:    "corey@blog.example",
	}

	t.Run("sends one message with reset link", func(t *testing.T) {
		client := &captureSender{}
		m := testMailer(client)

		require.NoError(t, m.SendPasswordReset(context.Background(), user, "tok123"))
		require.Len(t, client.messages, 1)

		var buf bytes.Buffer
		_, err := client.messages[0].WriteTo(&buf)
		require.NoError(t, err)
		raw := buf.String()

		assert.Contains(t, raw, "corey@blog.example")
		assert.Contains(t, raw, "Password Reset Request")
		assert.Contains(t, raw, "http://localhost:8000/reset_password/tok123")
		assert.Contains(t, raw, "simply ignore this email")
	})

	t.Run("wraps send failure", func(t *testing.T) {
		client := &captureSender{err: errors.New("connection refused")}
		m := testMailer(client)

		err := m.SendPasswordReset(context.Background(), user, "tok123")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}
