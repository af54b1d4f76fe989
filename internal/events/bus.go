// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/metrics"
)

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("events: bus closed")

// Bus pairs a Watermill publisher with the subscriber handlers read from.
type Bus struct {
	pub    message.Publisher
	sub    message.Subscriber
	logger watermill.LoggerAdapter

	mu      sync.RWMutex
	closed  bool
	closers []func() error
}

// NewInMemoryBus creates a GoChannel bus. Messages are lost on restart.
func NewInMemoryBus(logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = NewLogger()
	}
	ps := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            64,
		BlockPublishUntilSubscriberAck: false,
	}, logger)
	return &Bus{pub: ps, sub: ps, logger: logger, closers: []func() error{ps.Close}}
}

// NewLogger returns a Watermill logger that writes through zerolog.
func NewLogger() watermill.LoggerAdapter {
	return watermill.NewSlogLogger(logging.NewSlogLogger())
}

// Subscriber returns the subscriber handlers consume from.
func (b *Bus) Subscriber() message.Subscriber { return b.sub }

// Logger returns the bus logger.
func (b *Bus) Logger() watermill.LoggerAdapter { return b.logger }

// Publish sends ev on topic.
func (b *Bus) Publish(ctx context.Context, topic string, ev *Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	ev.Topic = topic
	msg, err := encode(ev)
	if err != nil {
		return err
	}
	msg.SetContext(ctx)
	if err := b.pub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.EventsPublished.WithLabelValues(topic).Inc()
	return nil
}

// PublishBestEffort publishes and logs instead of failing. Lifecycle
// events are notifications; the HTTP request that caused them has already
// succeeded.
func (b *Bus) PublishBestEffort(ctx context.Context, topic string, ev *Event) {
	if b == nil {
		return
	}
	if err := b.Publish(ctx, topic, ev); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("topic", topic).Str("code", ev.Code).Msg("Event publish failed")
	}
}

// Close closes the publisher and subscriber. Safe to call more than once.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	var errs []error
	for _, c := range b.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
