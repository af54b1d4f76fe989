// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package api

import (
	"net/http"

	"github.com/tomtom215/moodmeet/internal/analytics"
	"github.com/tomtom215/moodmeet/internal/store"
)

// Trend paging.
const (
	DefaultTrendLimit = 10
	MaxTrendLimit     = 50
)

// MeetingAnalytics reduces the full meeting, live items included.
func (h *Handler) MeetingAnalytics(w http.ResponseWriter, r *http.Request) {
	code, ok := codeParam(w, r)
	if !ok {
		return
	}
	m, err := h.meeting(r.Context(), code)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, analytics.Compute(m))
}

// LiveMetrics returns the rolling engagement, emotions and tips of a
// running meeting.
func (h *Handler) LiveMetrics(w http.ResponseWriter, r *http.Request) {
	code, ok := codeParam(w, r)
	if !ok {
		return
	}
	if _, err := h.session(r.Context(), code); err != nil {
		respondStoreError(w, r, err)
		return
	}
	live, err := h.sessions.Live(r.Context(), code)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, live)
}

// Trend reports the positive share of the most recent ended meetings,
// oldest first.
func (h *Handler) Trend(w http.ResponseWriter, r *http.Request) {
	limit := getIntParam(r, "limit", DefaultTrendLimit, MaxTrendLimit)
	items, _, err := h.store.List(r.Context(), store.History, 1, limit)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, analytics.Trend(items))
}
