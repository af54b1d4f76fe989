// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/models"
	ws "github.com/tomtom215/moodmeet/internal/websocket"
)

// checkOrigin allows requests without an Origin header (non-browser
// producers such as the replay tool) and origins on the allow-list.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.origins["*"] {
		return true
	}
	return h.origins[strings.TrimRight(origin, "/")]
}

// WebSocket upgrades into the room of ?code=. The meeting must exist.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if !models.ValidCode(code) {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "code query parameter must be a meeting code", nil)
		return
	}
	exists, err := h.store.Exists(r.Context(), code)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if !exists {
		respondError(w, r, http.StatusNotFound, CodeNotFound, msgMeetingNotFound, nil)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Meeting(r.Context(), code).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, code, h.dispatcher)
	select {
	case h.hub.Register <- client:
		client.Start()
	case <-r.Context().Done():
		_ = conn.Close()
	}
}
