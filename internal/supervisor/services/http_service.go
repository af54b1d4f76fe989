// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/moodmeet/internal/logging"
)

// DefaultDrainTimeout applies when NewHTTPServerService gets a non-positive timeout.
const DefaultDrainTimeout = 10 * time.Second

// HTTPServer is satisfied by *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService serves the API and websocket upgrades. On cancel it
// stops accepting and drains in-flight requests for at most shutdownTimeout.
// Upgraded websocket connections are hijacked and not drained; the hub
// closes them when the messaging layer stops.
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	name            string
}

// NewHTTPServerService wraps server.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultDrainTimeout
	}
	return &HTTPServerService{server: server, shutdownTimeout: shutdownTimeout, name: "http-server"}
}

func (h *HTTPServerService) addr() string {
	if s, ok := h.server.(*http.Server); ok {
		return s.Addr
	}
	return ""
}

// Serve implements suture.Service. A listen failure is returned so the
// supervisor retries the bind with backoff.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	log := logging.WithComponent(h.name)
	served := make(chan error, 1)
	go func() { served <- h.server.ListenAndServe() }()
	log.Info().Str("addr", h.addr()).Msg("HTTP server listening")

	select {
	case err := <-served:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.shutdownTimeout)
	defer cancel()
	start := time.Now()
	err := h.server.Shutdown(drainCtx)
	<-served
	if err != nil {
		return fmt.Errorf("http server drain failed after %s: %w", time.Since(start).Round(time.Millisecond), err)
	}
	log.Info().Dur("drain", time.Since(start)).Msg("HTTP server drained")
	return ctx.Err()
}

// String implements fmt.Stringer.
func (h *HTTPServerService) String() string {
	return h.name
}
