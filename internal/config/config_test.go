// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points CONFIG_PATH at a missing file and runs from an empty
// directory so no config.yaml on the machine leaks into the test.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "absent.yaml"))
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 5001 || cfg.Server.Addr() != "0.0.0.0:5001" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Session.SyncInterval != 30*time.Second || cfg.Session.CoachingInterval != 20*time.Second ||
		cfg.Session.MetricsInterval != 5*time.Second || cfg.Session.FinalFlushTimeout != 5*time.Second {
		t.Errorf("session = %+v", cfg.Session)
	}
	if cfg.LLM.Configured() {
		t.Error("LLM should be unconfigured without GEMINI_API_KEY")
	}
	if !cfg.Events.AutoSummary || cfg.Events.NATSEnabled {
		t.Errorf("events = %+v", cfg.Events)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "http://localhost:5173" {
		t.Errorf("cors = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Security.CoachingPerMinute != 5 || cfg.Security.SummaryPerMinute != 3 || cfg.Security.GeneralPerMinute != 60 {
		t.Errorf("limits = %+v", cfg.Security)
	}
}

func TestLoadEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "8080")
	t.Setenv("SYNC_INTERVAL", "45s")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("AUTO_SUMMARY", "false")
	t.Setenv("CLIENT_URL", "https://meet.example.com, http://localhost:3000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("UNRELATED_VAR", "ignored")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Session.SyncInterval != 45*time.Second {
		t.Errorf("sync interval = %v", cfg.Session.SyncInterval)
	}
	if !cfg.LLM.Configured() || cfg.GeminiOptions().APIKey != "secret" {
		t.Error("GEMINI_API_KEY not applied")
	}
	if cfg.Events.AutoSummary {
		t.Error("AUTO_SUMMARY=false not applied")
	}
	want := []string{"https://meet.example.com", "http://localhost:3000"}
	if strings.Join(cfg.Security.CORSOrigins, " ") != strings.Join(want, " ") {
		t.Errorf("cors = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	if cfg.LoggingOptions().Level != "debug" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "moodmeet.yaml")
	yaml := "server:\n  port: 7000\nstore:\n  path: /var/lib/mm\nsession:\n  metrics_interval: 2s\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("env should beat file: port = %d", cfg.Server.Port)
	}
	if cfg.StoreOptions().Path != "/var/lib/mm" {
		t.Errorf("store path = %q", cfg.Store.Path)
	}
	if cfg.SessionOptions().MetricsInterval != 2*time.Second {
		t.Errorf("metrics interval = %v", cfg.Session.MetricsInterval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantEnv string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "PORT"},
		{"no store path", func(c *Config) { c.Store.Path = "" }, "STORE_PATH"},
		{"zero sync interval", func(c *Config) { c.Session.SyncInterval = 0 }, "SYNC_INTERVAL"},
		{"bad classifier url", func(c *Config) { c.Classifier.URL = "ftp://x" }, "CLASSIFIER_URL"},
		{"classifier with path", func(c *Config) { c.Classifier.URL = "http://infer:8500/v1" }, ""},
		{"bad gemini endpoint", func(c *Config) { c.LLM.APIKey = "k"; c.LLM.Endpoint = "nope" }, "GEMINI_ENDPOINT"},
		{"external nats without url", func(c *Config) { c.Events.NATSEnabled = true; c.Events.NATS.Embedded = false }, "NATS_URL"},
		{"external nats bad scheme", func(c *Config) {
			c.Events.NATSEnabled = true
			c.Events.NATS.Embedded = false
			c.Events.NATS.URL = "http://nats:4222"
		}, "NATS_URL"},
		{"cors with path", func(c *Config) { c.Security.CORSOrigins = []string{"https://a.example/app"} }, "CLIENT_URL"},
		{"cors wildcard", func(c *Config) { c.Security.CORSOrigins = []string{"*"} }, ""},
		{"zero limit", func(c *Config) { c.Security.SummaryPerMinute = 0 }, "summary_per_minute"},
		{"zero limit disabled", func(c *Config) { c.Security.SummaryPerMinute = 0; c.Security.RateLimitDisabled = true }, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantEnv == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantEnv) {
				t.Errorf("Validate() = %v, want mention of %s", err, tt.wantEnv)
			}
		})
	}
}
