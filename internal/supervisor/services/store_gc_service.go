// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package services

import (
	"context"
	"time"

	"github.com/tomtom215/moodmeet/internal/logging"
)

// GarbageCollector is satisfied by *store.Store.
type GarbageCollector interface {
	// RunGC rewrites value log files until nothing is left to reclaim and
	// returns how many were rewritten.
	RunGC() (int, error)
	GCInterval() time.Duration
}

// StoreGCService reclaims value log space on a fixed interval. GC errors
// are logged and retried on the next tick; they never restart the service.
type StoreGCService struct {
	gc   GarbageCollector
	name string
}

// NewStoreGCService wraps gc.
func NewStoreGCService(gc GarbageCollector) *StoreGCService {
	return &StoreGCService{gc: gc, name: "store-gc"}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	interval := s.gc.GCInterval()
	if interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	log := logging.WithComponent(s.name)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			n, err := s.gc.RunGC()
			if err != nil {
				log.Warn().Err(err).Msg("Store GC failed")
				continue
			}
			if n > 0 {
				log.Info().Int("files_rewritten", n).Dur("duration", time.Since(start)).Msg("Store GC reclaimed space")
			}
		}
	}
}

// String implements fmt.Stringer.
func (s *StoreGCService) String() string {
	return s.name
}
