// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/metrics"
)

type route struct {
	name    string
	topic   string
	handler message.NoPublishHandlerFunc
}

// Router runs the registered consumer handlers against the bus subscriber.
// It implements suture.Service; every Serve builds a fresh Watermill router
// because a Watermill router cannot be run twice.
type Router struct {
	bus *Bus
	cfg RouterConfig

	mu      sync.Mutex
	routes  []route
	running chan struct{}
}

// NewRouter creates a router reading from bus.
func NewRouter(bus *Bus, cfg RouterConfig) *Router {
	if cfg.CloseTimeout <= 0 {
		cfg = DefaultRouterConfig()
	}
	return &Router{bus: bus, cfg: cfg, running: make(chan struct{})}
}

// Handle registers a consumer for topic. Handlers added after Serve has
// started take effect on the next restart.
func (r *Router) Handle(name, topic string, h message.NoPublishHandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route{name: name, topic: topic, handler: h})
}

// Running is closed once the first Serve has subscribed every handler.
func (r *Router) Running() <-chan struct{} { return r.running }

// Serve implements suture.Service.
func (r *Router) Serve(ctx context.Context) error {
	wm, err := message.NewRouter(message.RouterConfig{CloseTimeout: r.cfg.CloseTimeout}, r.bus.Logger())
	if err != nil {
		return fmt.Errorf("create watermill router: %w", err)
	}

	// Outer to inner: recover panics, ack after the last retry, back off.
	wm.AddMiddleware(middleware.Recoverer)
	wm.AddMiddleware(settle)
	retry := middleware.Retry{
		MaxRetries:      r.cfg.RetryMaxRetries,
		InitialInterval: r.cfg.RetryInitialInterval,
		MaxInterval:     r.cfg.RetryMaxInterval,
		Multiplier:      r.cfg.RetryMultiplier,
		Logger:          r.bus.Logger(),
	}
	wm.AddMiddleware(retry.Middleware)

	r.mu.Lock()
	for _, rt := range r.routes {
		wm.AddConsumerHandler(rt.name, rt.topic, r.bus.Subscriber(), rt.handler)
	}
	running := r.running
	r.mu.Unlock()

	go func() {
		select {
		case <-wm.Running():
			r.mu.Lock()
			select {
			case <-running:
			default:
				close(running)
			}
			r.mu.Unlock()
		case <-ctx.Done():
		}
	}()

	if err := wm.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer for suture logs.
func (r *Router) String() string { return "event-router" }

// settle acks a message whose handler still fails after the retries. The
// in-process bus redelivers a nacked message forever, and a lifecycle
// notification is not worth blocking the topic for.
func settle(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		topic := message.SubscribeTopicFromCtx(msg.Context())
		out, err := h(msg)
		if err != nil {
			metrics.EventsHandled.WithLabelValues(topic, "dropped").Inc()
			logging.Warn().
				Err(err).
				Str("component", "events").
				Str("topic", topic).
				Str("code", msg.Metadata.Get("code")).
				Str("message_id", msg.UUID).
				Msg("Event handler gave up")
			return nil, nil
		}
		metrics.EventsHandled.WithLabelValues(topic, "ok").Inc()
		return out, nil
	}
}
