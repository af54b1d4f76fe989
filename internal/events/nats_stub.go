// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

//go:build !nats

package events

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
)

// NATSAvailable reports whether this build includes the JetStream bus.
const NATSAvailable = false

// NewNATSBus is unavailable without the nats build tag.
func NewNATSBus(_ NATSConfig, _ watermill.LoggerAdapter) (*Bus, error) {
	return nil, fmt.Errorf("NATS event bus not available: build with -tags=nats")
}
