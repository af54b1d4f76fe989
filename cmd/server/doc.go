// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

/*
Package main is the entry point for the MoodMeet server.

MoodMeet records the facial expression and speech telemetry of video
meetings, keeps a live engagement score and coaching tips per meeting, and
produces post-meeting analytics and AI summaries.

# Application Architecture

	RootSupervisor ("moodmeet")
	├── DataSupervisor ("data-layer")
	│   └── Store GC (badger value log)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub (meeting rooms)
	│   └── Event Router (watermill, in-memory or NATS)
	├── SessionSupervisor ("session-layer")
	│   └── one runner per live meeting (sync, coaching, metrics)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi)

Component initialization order:

 1. Configuration: koanf v2 with defaults, config.yaml and environment
 2. Store: badger at STORE_PATH
 3. AI: Gemini client when GEMINI_API_KEY is set, fixed messages otherwise
 4. Classifier: HTTP inference service when CLASSIFIER_URL is set
 5. Event bus: in-memory, or NATS JetStream with NATS_ENABLED (-tags nats)
 6. Session manager, handlers and router

# Build Tags

	go build ./cmd/server               # in-memory event bus
	go build -tags nats ./cmd/server    # NATS JetStream event bus

# Signal Handling

SIGINT and SIGTERM cancel the root context. Live sessions run their final
flush, the HTTP server drains for SHUTDOWN_TIMEOUT, then the bus and
the store are closed.
*/
package main
