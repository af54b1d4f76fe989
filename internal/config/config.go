// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/moodmeet/internal/events"
	"github.com/tomtom215/moodmeet/internal/llm"
	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/session"
	"github.com/tomtom215/moodmeet/internal/store"
)

// Config is the complete service configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Store      StoreConfig      `koanf:"store"`
	Session    SessionConfig    `koanf:"session"`
	LLM        LLMConfig        `koanf:"llm"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Events     EventsConfig     `koanf:"events"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig holds durable store settings.
type StoreConfig struct {
	Path        string        `koanf:"path"`
	SyncWrites  bool          `koanf:"sync_writes"`
	Compression bool          `koanf:"compression"`
	GCInterval  time.Duration `koanf:"gc_interval"`
	GCRatio     float64       `koanf:"gc_ratio"`
}

// SessionConfig holds the live session cadence.
type SessionConfig struct {
	SyncInterval      time.Duration `koanf:"sync_interval"`
	CoachingInterval  time.Duration `koanf:"coaching_interval"`
	MetricsInterval   time.Duration `koanf:"metrics_interval"`
	FinalFlushTimeout time.Duration `koanf:"final_flush_timeout"`
}

// LLMConfig holds Gemini settings. An empty APIKey disables AI features.
type LLMConfig struct {
	APIKey            string        `koanf:"api_key"`
	Model             string        `koanf:"model"`
	Endpoint          string        `koanf:"endpoint"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
}

// Configured reports whether an API key is set.
func (c LLMConfig) Configured() bool {
	return c.APIKey != ""
}

// ClassifierConfig holds the expression inference service settings.
type ClassifierConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// EventsConfig selects the meeting event bus.
type EventsConfig struct {
	AutoSummary bool              `koanf:"auto_summary"`
	NATSEnabled bool              `koanf:"nats_enabled"`
	NATS        events.NATSConfig `koanf:"nats"`
}

// SecurityConfig holds CORS and rate limits (requests per minute per IP).
type SecurityConfig struct {
	CORSOrigins       []string `koanf:"cors_origins"`
	RateLimitDisabled bool     `koanf:"rate_limit_disabled"`
	GeneralPerMinute  int      `koanf:"general_per_minute"`
	CoachingPerMinute int      `koanf:"coaching_per_minute"`
	SummaryPerMinute  int      `koanf:"summary_per_minute"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	// Level is trace, debug, info, warn or error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	Caller bool `koanf:"caller"`
}

// StoreOptions converts the store section.
func (c *Config) StoreOptions() store.Config {
	return store.Config{
		Path:        c.Store.Path,
		SyncWrites:  c.Store.SyncWrites,
		Compression: c.Store.Compression,
		GCInterval:  c.Store.GCInterval,
		GCRatio:     c.Store.GCRatio,
	}
}

// SessionOptions converts the session section.
func (c *Config) SessionOptions() session.Config {
	return session.Config{
		SyncInterval:      c.Session.SyncInterval,
		CoachingInterval:  c.Session.CoachingInterval,
		MetricsInterval:   c.Session.MetricsInterval,
		FinalFlushTimeout: c.Session.FinalFlushTimeout,
	}
}

// GeminiOptions converts the llm section.
func (c *Config) GeminiOptions() llm.GeminiConfig {
	return llm.GeminiConfig{
		APIKey:            c.LLM.APIKey,
		Model:             c.LLM.Model,
		Endpoint:          c.LLM.Endpoint,
		Timeout:           c.LLM.Timeout,
		RequestsPerSecond: c.LLM.RequestsPerSecond,
		Burst:             c.LLM.Burst,
	}
}

// LoggingOptions converts the logging section.
func (c *Config) LoggingOptions() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}
