// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/tomtom215/moodmeet/internal/metrics"
	"github.com/tomtom215/moodmeet/internal/models"
)

// maxConflictRetries bounds retries of an append that lost a write race on
// the sequence counter.
const maxConflictRetries = 5

// AppendEach appends items to one log of a meeting in a single transaction.
// The counter read, the item writes and the counter update commit together,
// so a batch is either fully visible or not at all. An empty batch is a
// no-op; an unknown meeting returns ErrNotFound.
func AppendEach[T any](ctx context.Context, s *Store, code string, field Field, items []T) (err error) {
	if len(items) == 0 {
		return nil
	}
	start := time.Now()
	defer func() { metrics.RecordStoreOp("append_"+string(field), start, err) }()

	values := make([][]byte, len(items))
	for i := range items {
		if values[i], err = json.Marshal(items[i]); err != nil {
			return fmt.Errorf("marshal %s item %d: %w", field, i, err)
		}
	}

	for attempt := 0; ; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = s.update(func(txn *badger.Txn) error {
			return appendTxn(txn, code, field, values)
		})
		if !errors.Is(err, badger.ErrConflict) || attempt >= maxConflictRetries {
			break
		}
		metrics.StoreConflictRetries.Inc()
	}
	if err != nil {
		return fmt.Errorf("append %s to %s: %w", field, code, err)
	}

	metrics.StoreAppendedItems.WithLabelValues(string(field)).Add(float64(len(items)))
	return nil
}

func appendTxn(txn *badger.Txn, code string, field Field, values [][]byte) error {
	if _, err := txn.Get(meetingKey(code)); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}

	next, err := readSeq(txn, code, field)
	if err != nil {
		return err
	}
	for _, v := range values {
		if err := txn.Set(logKey(code, field, next), v); err != nil {
			return err
		}
		next++
	}
	return txn.Set(seqKey(code, field), encodeSeq(next))
}

func readSeq(txn *badger.Txn, code string, field Field) (uint64, error) {
	item, err := txn.Get(seqKey(code, field))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var n uint64
	err = item.Value(func(val []byte) error {
		n, err = decodeSeq(val)
		return err
	})
	return n, err
}

// readLog decodes every item of one log in sequence order.
func readLog[T any](txn *badger.Txn, code string, field Field) ([]T, error) {
	prefix := logPrefix(code, field)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	out := make([]T, 0)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var v T
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		}); err != nil {
			return nil, fmt.Errorf("decode %s item %s: %w", field, it.Item().Key(), err)
		}
		out = append(out, v)
	}
	return out, nil
}

// AppendEmotions appends snapshots to the emotion log.
func (s *Store) AppendEmotions(ctx context.Context, code string, items []models.EmotionSnapshot) error {
	return AppendEach(ctx, s, code, FieldEmotion, items)
}

// AppendTranscript appends segments to the transcript log.
func (s *Store) AppendTranscript(ctx context.Context, code string, items []models.TranscriptSegment) error {
	return AppendEach(ctx, s, code, FieldTranscript, items)
}
