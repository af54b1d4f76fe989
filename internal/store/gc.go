// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package store

import (
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/tomtom215/moodmeet/internal/metrics"
)

// GCInterval returns the configured value log GC period.
func (s *Store) GCInterval() time.Duration {
	return s.cfg.GCInterval
}

// RunGC runs value log GC until badger reports nothing left to rewrite and
// returns how many files were rewritten. In-memory stores have no value log
// and return (0, nil).
func (s *Store) RunGC() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	if s.cfg.InMemory {
		return 0, nil
	}

	rewrites := 0
	for {
		err := s.db.RunValueLogGC(s.cfg.GCRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			break
		}
		if err != nil {
			metrics.StoreGCRuns.WithLabelValues("error").Inc()
			return rewrites, err
		}
		rewrites++
	}

	if rewrites > 0 {
		metrics.StoreGCRuns.WithLabelValues("rewritten").Inc()
	} else {
		metrics.StoreGCRuns.WithLabelValues("noop").Inc()
	}
	return rewrites, nil
}
