// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

// Package middleware holds the HTTP middleware MoodMeet adds on top of chi's:
// request IDs tied into the logging context, Prometheus request metrics
// labelled by route pattern, and a structured access log.
//
// All middleware has the chi shape func(http.Handler) http.Handler and must
// be mounted inside a chi router; metrics and the access log read the
// matched route pattern after the handler ran.
package middleware
