// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

// Package store is the durable meeting document store, backed by BadgerDB.
//
// A meeting is stored as a header record plus two append-only logs. Each log
// item has its own key so an append writes only the new items:
//
//	meeting:<code>                       header (everything except the logs)
//	log:<code>:emotion:<seq %020d>       one EmotionSnapshot
//	log:<code>:transcript:<seq %020d>    one TranscriptSegment
//	seq:<code>:<field>                   next sequence number (big-endian uint64)
//
// The zero-padded sequence keeps badger's lexical key order equal to append
// order. An append batch commits in one transaction: readers see all of it
// or none of it.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/tomtom215/moodmeet/internal/logging"
)

var (
	// ErrNotFound is returned for an unknown meeting code.
	ErrNotFound = errors.New("store: meeting not found")

	// ErrExists is returned by Create when the code is taken.
	ErrExists = errors.New("store: meeting already exists")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("store: closed")
)

// Config configures the badger database.
type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM. Tests only.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// Compression enables Snappy block compression.
	Compression bool

	// GCInterval is how often GCService runs value log GC.
	GCInterval time.Duration

	// GCRatio is the discard ratio passed to RunValueLogGC.
	GCRatio float64
}

// DefaultConfig returns production defaults for path.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		SyncWrites:  true,
		Compression: true,
		GCInterval:  10 * time.Minute,
		GCRatio:     0.5,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return errors.New("store path is required")
	}
	if c.GCRatio < 0 || c.GCRatio >= 1 {
		return fmt.Errorf("gc ratio must be in [0,1), got %v", c.GCRatio)
	}
	return nil
}

// Store is safe for concurrent use. Badger provides transaction isolation;
// mu only guards the closed flag against use after Close.
type Store struct {
	db  *badger.DB
	cfg Config

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the database.
func Open(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}
	if cfg.GCRatio == 0 {
		cfg.GCRatio = 0.5
	}
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = 10 * time.Minute
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	if cfg.Compression {
		opts.Compression = options.Snappy
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("Meeting store opened")

	return &Store{db: db, cfg: cfg}, nil
}

// OpenForTesting opens an in-memory store.
func OpenForTesting() (*Store, error) {
	return Open(Config{InMemory: true})
}

// Close closes the database. Further calls return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}

// update runs fn in a read-write transaction.
func (s *Store) update(fn func(txn *badger.Txn) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return s.db.Update(fn)
}

// view runs fn in a read-only transaction.
func (s *Store) view(fn func(txn *badger.Txn) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return s.db.View(fn)
}
