// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/metrics"
)

// ErrCursorAhead means the source reported fewer items than were already
// acknowledged. Logs are append-only, so this indicates a replaced log.
var ErrCursorAhead = errors.New("sync: log is shorter than cursor")

// Sender delivers a batch to the durable destination. A nil return is the
// acknowledgment that lets the cursor advance.
type Sender[T any] interface {
	Send(ctx context.Context, items []T) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc[T any] func(ctx context.Context, items []T) error

// Send implements Sender.
func (f SenderFunc[T]) Send(ctx context.Context, items []T) error {
	return f(ctx, items)
}

// Source returns a copy of log[from:] together with len(log), both taken
// from the same observation of the log.
type Source[T any] func(from int) (items []T, total int)

// SliceSource adapts a function returning a full snapshot of the log.
func SliceSource[T any](snapshot func() []T) Source[T] {
	return func(from int) ([]T, int) {
		all := snapshot()
		if from > len(all) {
			return nil, len(all)
		}
		return all[from:], len(all)
	}
}

// Syncer incrementally flushes one log.
type Syncer[T any] struct {
	name   string
	source Source[T]
	sender Sender[T]
	logger zerolog.Logger

	mu     sync.Mutex // serialises Flush
	cursor atomic.Int64
}

// New creates a Syncer. name labels logs and metrics ("emotions", "transcript").
func New[T any](name string, source Source[T], sender Sender[T]) *Syncer[T] {
	return &Syncer[T]{
		name:   name,
		source: source,
		sender: sender,
		logger: logging.WithComponent("sync").With().Str("log", name).Logger(),
	}
}

// WithLogger replaces the logger; fields such as the meeting code go here.
//
//nolint:gocritic // zerolog.Logger is passed by value
func (s *Syncer[T]) WithLogger(l zerolog.Logger) *Syncer[T] {
	s.logger = l.With().Str("log", s.name).Logger()
	return s
}

// Name returns the log name.
func (s *Syncer[T]) Name() string { return s.name }

// Cursor returns the number of acknowledged items.
func (s *Syncer[T]) Cursor() int { return int(s.cursor.Load()) }

// Flush sends the unsent suffix once. It returns how many items were
// acknowledged; (0, nil) means there was nothing to send.
func (s *Syncer[T]) Flush(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := int(s.cursor.Load())
	batch, n := s.source(cur)
	if n < cur {
		return 0, fmt.Errorf("%w: %s has %d items, cursor at %d", ErrCursorAhead, s.name, n, cur)
	}
	if n == cur || len(batch) == 0 {
		return 0, nil
	}

	start := time.Now()
	err := s.sender.Send(ctx, batch)
	metrics.RecordSyncFlush(s.name, len(batch), time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("flush %s: %w", s.name, err)
	}

	// n was captured with the batch; anything appended since stays unsent.
	s.cursor.Store(int64(n))
	return len(batch), nil
}

// Loop flushes every interval until ctx is done. Tick failures are logged
// and retried on the next tick; they never stop the loop.
func (s *Syncer[T]) Loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sent, err := s.Flush(ctx)
			switch {
			case err != nil && ctx.Err() != nil:
				return
			case err != nil:
				s.logger.Warn().Err(err).Int("cursor", s.Cursor()).Msg("Flush failed, will retry")
			case sent > 0:
				s.logger.Debug().Int("sent", sent).Int("cursor", s.Cursor()).Msg("Flushed")
			}
		}
	}
}
