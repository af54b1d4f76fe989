// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the liveness report.
type HealthStatus struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	UptimeSeconds  int64     `json:"uptimeSeconds"`
	Classifier     string    `json:"classifier"`
	LLMConfigured  bool      `json:"llmConfigured"`
	ActiveSessions int       `json:"activeSessions"`
	WSClients      int       `json:"wsClients"`
}

// Health always answers 200 while the process serves requests. Component
// states are informational.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := HealthStatus{
		Status:         "ok",
		Timestamp:      h.now().UTC(),
		UptimeSeconds:  int64(time.Since(h.startTime).Seconds()),
		Classifier:     "disabled",
		LLMConfigured:  h.llm.Configured(),
		ActiveSessions: h.sessions.Active(),
	}
	if h.classifier != nil {
		st.Classifier = h.classifier.State().String()
	}
	if h.hub != nil {
		st.WSClients = h.hub.GetClientCount()
	}
	respondData(w, r, http.StatusOK, st)
}
