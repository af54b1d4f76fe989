// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package services

import (
	"context"
	"errors"

	"github.com/tomtom215/moodmeet/internal/logging"
)

var errHubStopped = errors.New("websocket hub stopped")

// ContextHub is satisfied by *websocket.Hub.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// WebSocketHubService supervises the meeting room hub. A hub that stops
// while the server is still running has dropped every room; the service
// reports it as a failure so suture restarts the hub, and producers rejoin
// their rooms when they reconnect.
type WebSocketHubService struct {
	hub  ContextHub
	name string
}

// NewWebSocketHubService wraps hub.
func NewWebSocketHubService(hub ContextHub) *WebSocketHubService {
	return &WebSocketHubService{hub: hub, name: "websocket-hub"}
}

// Serve implements suture.Service.
func (w *WebSocketHubService) Serve(ctx context.Context) error {
	err := w.hub.RunWithContext(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errHubStopped
	}
	log := logging.WithComponent(w.name)
	log.Warn().Err(err).Msg("Hub stopped with rooms open, restarting")
	return err
}

// String implements fmt.Stringer.
func (w *WebSocketHubService) String() string {
	return w.name
}
