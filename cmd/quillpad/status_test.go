// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeEndpoint(t *testing.T) {
	t.Run("healthy endpoint is up", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		status := probeEndpoint(srv.Client(), "web", srv.URL)
		assert.True(t, status.Up)
		assert.Empty(t, status.Error)
	})

	t.Run("5xx endpoint is down", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		status := probeEndpoint(srv.Client(), "readiness", srv.URL)
		assert.False(t, status.Up)
		assert.Contains(t, status.Error, "503")
	})

	t.Run("unreachable endpoint reports the error", func(t *testing.T) {
		status := probeEndpoint(&http.Client{}, "web", "http://127.0.0.1:1/")
		assert.False(t, status.Up)
		assert.NotEmpty(t, status.Error)
	})
}

func TestFormatStatusTable(t *testing.T) {
	out := formatStatusTable([]EndpointStatus{
		{Endpoint: "web", URL: "http://localhost:8000/", Up: true},
		{Endpoint: "metrics", URL: "http://127.0.0.1:9100/metrics", Error: "connection refused"},
	})

	assert.Contains(t, out, "ENDPOINT")
	assert.Contains(t, out, "web")
	assert.Contains(t, out, "up")
	assert.Contains(t, out, "connection refused")
}

func TestStatusCmd_JSONOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cmd := newStatusCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"--json",
		"--server.base_url", srv.URL,
		"--server.metrics_addr", "",
	})

	require.NoError(t, cmd.Execute())

	var statuses []EndpointStatus
	require.NoError(t, json.Unmarshal(out.Bytes(), &statuses))
	require.Len(t, statuses, 1)
	assert.Equal(t, "web", statuses[0].Endpoint)
	assert.True(t, statuses[0].Up)
}
