// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Layer names, as they appear in supervisor log events.
const (
	RootName       = "moodmeet"
	DataLayer      = "data-layer"
	MessagingLayer = "messaging-layer"
	SessionLayer   = "session-layer"
	APILayer       = "api-layer"
)

// TreeConfig holds the restart policy shared by every layer.
type TreeConfig struct {
	// FailureThreshold is how many failures a layer absorbs before it backs
	// off. Default 5.
	FailureThreshold float64

	// FailureDecay is the failure count half-life in seconds. Default 30.
	FailureDecay float64

	// FailureBackoff is the pause once the threshold is crossed. Default 15s.
	FailureBackoff time.Duration

	// ShutdownTimeout bounds how long a layer waits for each child to stop.
	// A session runner needs it to cover its final flush. Default 10s.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's own defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	def := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = def.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = def.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = def.FailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = def.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) spec() suture.Spec {
	return suture.Spec{
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// SupervisorTree is the service hierarchy of the server. The store GC runs
// in the data layer, the hub and the event router in the messaging layer,
// one runner per live meeting in the session layer and the HTTP server in
// the API layer.
type SupervisorTree struct {
	root      *suture.Supervisor
	data      *suture.Supervisor
	messaging *suture.Supervisor
	sessions  *suture.Supervisor
	api       *suture.Supervisor
	config    TreeConfig
}

// NewSupervisorTree builds the tree. Zero config fields take defaults and a
// nil logger falls back to slog.Default.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	config = config.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	hook := &sutureslog.Handler{Logger: logger}
	rootSpec := config.spec()
	rootSpec.EventHook = hook.MustHook()

	t := &SupervisorTree{
		root:   suture.New(RootName, rootSpec),
		config: config,
	}
	// Layers inherit the root's EventHook when added.
	t.data = t.layer(DataLayer)
	t.messaging = t.layer(MessagingLayer)
	t.sessions = t.layer(SessionLayer)
	t.api = t.layer(APILayer)
	return t, nil
}

func (t *SupervisorTree) layer(name string) *suture.Supervisor {
	s := suture.New(name, t.config.spec())
	t.root.Add(s)
	return s
}

// Root returns the root supervisor.
func (t *SupervisorTree) Root() *suture.Supervisor { return t.root }

// Sessions returns the session layer. It satisfies session.Supervisor.
func (t *SupervisorTree) Sessions() *suture.Supervisor { return t.sessions }

// AddDataService adds svc to the data layer.
func (t *SupervisorTree) AddDataService(svc suture.Service) suture.ServiceToken {
	return t.data.Add(svc)
}

// AddMessagingService adds svc to the messaging layer.
func (t *SupervisorTree) AddMessagingService(svc suture.Service) suture.ServiceToken {
	return t.messaging.Add(svc)
}

// AddAPIService adds svc to the API layer.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// ServeBackground runs the tree until ctx is canceled. The channel receives
// the result once every layer has stopped.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
