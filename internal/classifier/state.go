// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package classifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/metrics"
)

// State is the initialization state of a classifier backend.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LoadFunc performs the one-time initialization.
type LoadFunc func(ctx context.Context) error

// Loader coordinates a one-time load between concurrent callers.
//
// The first Ensure starts an attempt; callers arriving while it runs wait on
// the same attempt. Once ready, Ensure returns nil without blocking. A
// failed attempt is reported to everyone who waited on it, and the next
// Ensure starts a fresh one.
type Loader struct {
	load    LoadFunc
	timeout time.Duration

	mu    sync.Mutex
	state State
	err   error
	done  chan struct{}
}

// NewLoader creates a loader. Each attempt runs with its own timeout so a
// caller giving up does not abort the load for the others.
func NewLoader(load LoadFunc, timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Loader{load: load, timeout: timeout}
}

// State returns the current state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the error of the last failed attempt, or nil.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Ensure returns once the backend is ready, the current attempt failed, or
// ctx is done.
func (l *Loader) Ensure(ctx context.Context) error {
	l.mu.Lock()
	switch l.state {
	case StateReady:
		l.mu.Unlock()
		return nil
	case StateUninitialized, StateFailed:
		l.state = StateLoading
		l.err = nil
		l.done = make(chan struct{})
		metrics.ClassifierState.Set(float64(StateLoading))
		go l.run(l.done)
	}
	done := l.done
	l.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// A newer attempt may already be running; report the one we waited on.
	if l.state == StateReady {
		return nil
	}
	if l.err != nil {
		return fmt.Errorf("%w: %v", ErrNotReady, l.err)
	}
	return ErrNotReady
}

func (l *Loader) run(done chan struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	start := time.Now()
	err := l.load(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state = StateFailed
		l.err = err
		logging.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("Classifier initialization failed")
	} else {
		l.state = StateReady
		logging.Info().Dur("elapsed", time.Since(start)).Msg("Classifier ready")
	}
	metrics.ClassifierState.Set(float64(l.state))
	close(done)
}
