// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/moodmeet/internal/events"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/moodmeet/config.yaml",
}

// ConfigPathEnvVar names the config file override.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5001,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second, // summaries wait on the LLM
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Path:        "/data/moodmeet",
			SyncWrites:  true,
			Compression: true,
			GCInterval:  10 * time.Minute,
			GCRatio:     0.5,
		},
		Session: SessionConfig{
			SyncInterval:      30 * time.Second,
			CoachingInterval:  20 * time.Second,
			MetricsInterval:   5 * time.Second,
			FinalFlushTimeout: 5 * time.Second,
		},
		LLM: LLMConfig{
			Model:             "gemini-2.0-flash",
			Endpoint:          "https://generativelanguage.googleapis.com",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Classifier: ClassifierConfig{
			Timeout: 5 * time.Second,
		},
		Events: EventsConfig{
			AutoSummary: true,
			NATSEnabled: false,
			NATS:        events.DefaultNATSConfig(),
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"http://localhost:5173"},
			GeneralPerMinute:  60,
			CoachingPerMinute: 5,
			SummaryPerMinute:  3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads defaults, the optional config file and the environment, then
// validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated strings coming from the
// environment. YAML lists are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			continue
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	"host":             "server.host",
	"port":             "server.port",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	"store_path":        "store.path",
	"store_sync_writes": "store.sync_writes",
	"store_gc_interval": "store.gc_interval",
	"store_gc_ratio":    "store.gc_ratio",

	"sync_interval":       "session.sync_interval",
	"coaching_interval":   "session.coaching_interval",
	"metrics_interval":    "session.metrics_interval",
	"final_flush_timeout": "session.final_flush_timeout",

	"gemini_api_key":  "llm.api_key",
	"gemini_model":    "llm.model",
	"gemini_endpoint": "llm.endpoint",
	"llm_timeout":     "llm.timeout",
	"llm_rps":         "llm.requests_per_second",

	"classifier_url":     "classifier.url",
	"classifier_timeout": "classifier.timeout",

	"auto_summary":     "events.auto_summary",
	"nats_enabled":     "events.nats_enabled",
	"nats_url":         "events.nats.url",
	"nats_embedded":    "events.nats.embedded",
	"nats_port":        "events.nats.port",
	"nats_store_dir":   "events.nats.store_dir",
	"nats_queue_group": "events.nats.queue_group",

	"client_url":          "security.cors_origins",
	"rate_limit_disabled": "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc returns "" for unmapped keys so stray environment
// variables never reach the config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
