// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

/*
Package api is the MoodMeet HTTP surface: meeting lifecycle, batch
telemetry appends, analytics, AI helpers and the websocket upgrade.

Handler files:

  - handlers.go: Handler, its dependencies and shared lookups
  - handlers_meetings.go: create, get, join, end, batch append, history
  - handlers_analytics.go: per-meeting analytics, live metrics, trend
  - handlers_ai.go: coaching, summary and Q&A
  - handlers_ws.go: websocket upgrade into a meeting room
  - handlers_health.go: liveness
  - ingest.go: websocket producer messages applied to sessions and the store

Every JSON response uses one envelope:

	{"success": true, "data": {...}, "meta": {"timestamp": "...", "request_id": "..."}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "Meeting not found", "request_id": "..."}, "meta": {...}}

Routes are mounted on chi under /api/v1 (see chi_router.go). Rate limits
are per client IP: coaching 5/min, summary 3/min, everything else 60/min.
*/
package api
