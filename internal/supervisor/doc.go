// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

/*
Package supervisor runs every long-lived MoodMeet service under suture v4.

# Overview

	RootSupervisor ("moodmeet")
	├── DataSupervisor ("data-layer")
	│   └── StoreGCService
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocketHubService
	│   └── events.Router
	├── SessionSupervisor ("session-layer")
	│   └── session runner, one per live meeting
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Meeting runners are added when a meeting is created and removed with
RemoveAndWait when it ends, so the periodic flush, coaching and metrics
ticks of a meeting live exactly as long as its session.

A crashed service is restarted with backoff; a crash in one layer does not
stop the others.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewStoreGCService(st))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
	manager := session.NewManager(st, tree.Sessions(), llmSvc, hub, sessionCfg)

	errCh := tree.ServeBackground(ctx)

# Logging

Supervisor events (service panics, restarts, backoff, stop timeouts) go
through sutureslog into the slog bridge of internal/logging, so they land in
the same zerolog stream as everything else.
*/
package supervisor
