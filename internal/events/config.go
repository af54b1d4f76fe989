// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package events

import (
	"fmt"
	"time"
)

// NATSConfig configures the JetStream bus. Ignored unless built with
// -tags=nats.
type NATSConfig struct {
	// URL of an external server. Empty with Embedded set starts one in-process.
	URL           string        `koanf:"url"`
	Embedded      bool          `koanf:"embedded"`
	Host          string        `koanf:"host"`
	Port          int           `koanf:"port"`
	StoreDir      string        `koanf:"store_dir"`
	QueueGroup    string        `koanf:"queue_group"`
	DurablePrefix string        `koanf:"durable_prefix"`
	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`
	AckWait       time.Duration `koanf:"ack_wait"`
}

// DefaultNATSConfig returns single-instance defaults with an embedded server.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		Embedded:      true,
		Host:          "127.0.0.1",
		Port:          4222,
		StoreDir:      "/data/nats",
		QueueGroup:    "moodmeet",
		DurablePrefix: "moodmeet",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		AckWait:       30 * time.Second,
	}
}

// Validate checks the settings that would otherwise fail at connect time.
func (c *NATSConfig) Validate() error {
	if c.URL == "" && !c.Embedded {
		return fmt.Errorf("nats: url is required when embedded is false")
	}
	if c.Embedded && (c.Port < 0 || c.Port > 65535) {
		return fmt.Errorf("nats: port %d out of range", c.Port)
	}
	if c.AckWait <= 0 {
		return fmt.Errorf("nats: ack_wait must be positive")
	}
	return nil
}

// RouterConfig tunes handler retries.
type RouterConfig struct {
	CloseTimeout         time.Duration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64
}

// DefaultRouterConfig keeps retries short; generation already has its own
// breaker and a failed summary is regenerated on demand.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 500 * time.Millisecond,
		RetryMaxInterval:     10 * time.Second,
		RetryMultiplier:      2.0,
	}
}
