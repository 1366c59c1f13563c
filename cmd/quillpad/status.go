// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillpad/quillpad/internal/config"
)

// EndpointStatus holds the probe result for one endpoint.
type EndpointStatus struct {
	Endpoint string `json:"endpoint"`
	URL      string `json:"url"`
	Up       bool   `json:"up"`
	Error    string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
	timeout    time.Duration
}

// newStatusCmd creates the status subcommand with all flags configured.
func newStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show status of a running Quillpad server",
		Long:  `Probe the web server and its health endpoints and report what is up.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	config.Flags(cmd.Flags())
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", 3*time.Second, "probe timeout per endpoint")

	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	appCfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: cfg.timeout}

	statuses := []EndpointStatus{
		probeEndpoint(client, "web", strings.TrimRight(appCfg.Server.BaseURL, "/")+"/"),
	}
	if appCfg.Server.MetricsAddr != "" {
		base := "http://" + appCfg.Server.MetricsAddr
		statuses = append(statuses,
			probeEndpoint(client, "liveness", base+"/healthz/liveness"),
			probeEndpoint(client, "readiness", base+"/healthz/readiness"),
			probeEndpoint(client, "metrics", base+"/metrics"),
		)
	}

	var output string
	if cfg.jsonOutput {
		output, err = formatStatusJSON(statuses)
		if err != nil {
			return err
		}
	} else {
		output = formatStatusTable(statuses)
	}

	cmd.Println(output)
	return nil
}

// probeEndpoint issues one GET and records whether it answered 2xx.
func probeEndpoint(client *http.Client, name, url string) EndpointStatus {
	status := EndpointStatus{Endpoint: name, URL: url}

	resp, err := client.Get(url)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		status.Up = true
	} else {
		status.Error = resp.Status
	}
	return status
}

func formatStatusJSON(statuses []EndpointStatus) (string, error) {
	data, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func formatStatusTable(statuses []EndpointStatus) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "ENDPOINT\tSTATE\tDETAIL")
	for _, s := range statuses {
		state := "down"
		if s.Up {
			state = "up"
		}
		detail := s.URL
		if s.Error != "" {
			detail = s.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Endpoint, state, detail)
	}
	_ = w.Flush()

	return strings.TrimRight(b.String(), "\n")
}
