// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks the configuration. Errors name the environment variable
// that sets the offending value.
func (c *Config) Validate() error {
	checks := []func() error{
		c.validateServer,
		c.validateStore,
		c.validateSession,
		c.validateLLM,
		c.validateClassifier,
		c.validateEvents,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateStore() error {
	if c.Store.Path == "" {
		return fmt.Errorf("STORE_PATH is required")
	}
	if c.Store.GCInterval < 0 {
		return fmt.Errorf("STORE_GC_INTERVAL must not be negative")
	}
	if c.Store.GCRatio < 0 || c.Store.GCRatio >= 1 {
		return fmt.Errorf("STORE_GC_RATIO must be in [0,1), got %v", c.Store.GCRatio)
	}
	return nil
}

func (c *Config) validateSession() error {
	durations := []struct {
		env string
		d   time.Duration
	}{
		{"SYNC_INTERVAL", c.Session.SyncInterval},
		{"COACHING_INTERVAL", c.Session.CoachingInterval},
		{"METRICS_INTERVAL", c.Session.MetricsInterval},
		{"FINAL_FLUSH_TIMEOUT", c.Session.FinalFlushTimeout},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("%s must be positive, got %v", d.env, d.d)
		}
	}
	return nil
}

func (c *Config) validateLLM() error {
	if !c.LLM.Configured() {
		return nil
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return fmt.Errorf("GEMINI_MODEL must not be empty when GEMINI_API_KEY is set")
	}
	if err := validateHTTPURL(c.LLM.Endpoint, "GEMINI_ENDPOINT", false); err != nil {
		return err
	}
	if c.LLM.RequestsPerSecond <= 0 {
		return fmt.Errorf("LLM_RPS must be positive")
	}
	return nil
}

func (c *Config) validateClassifier() error {
	if c.Classifier.URL == "" {
		return nil
	}
	return validateHTTPURL(c.Classifier.URL, "CLASSIFIER_URL", true)
}

func (c *Config) validateEvents() error {
	if !c.Events.NATSEnabled {
		return nil
	}
	if !c.Events.NATS.Embedded {
		if c.Events.NATS.URL == "" {
			return fmt.Errorf("NATS_URL is required when NATS_EMBEDDED=false")
		}
		if err := validateNATSURL(c.Events.NATS.URL); err != nil {
			return err
		}
	}
	return c.Events.NATS.Validate()
}

func (c *Config) validateSecurity() error {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			continue
		}
		if err := validateHTTPURL(origin, "CLIENT_URL", false); err != nil {
			return err
		}
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	limits := []struct {
		name string
		n    int
	}{
		{"general", c.Security.GeneralPerMinute},
		{"coaching", c.Security.CoachingPerMinute},
		{"summary", c.Security.SummaryPerMinute},
	}
	for _, l := range limits {
		if l.n <= 0 {
			return fmt.Errorf("security.%s_per_minute must be positive, got %d", l.name, l.n)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
