// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

/*
Package services adapts MoodMeet components to suture.Service.

Each wrapper turns a component lifecycle (ListenAndServe/Shutdown, a
context-aware run loop, a periodic job) into Serve(ctx) error and names
itself through fmt.Stringer for supervisor logs.

  - HTTPServerService: *http.Server with graceful shutdown (api layer)
  - WebSocketHubService: websocket.Hub rooms (messaging layer)
  - StoreGCService: periodic value log GC of the meeting store (data layer)

The event router and the per-meeting session runners implement
suture.Service themselves and need no wrapper.

The interfaces here are declared next to their consumer so this package
does not import the components it wraps.
*/
package services
