// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodmeet/internal/models"
)

// Capture record types, one record per line:
//
//	{"type":"emotion","data":{"participantId":"p1","timestamp":"...","emotion":"happy","confidence":0.9}}
//	{"type":"transcript","data":{"participantId":"p1","timestamp":"...","text":"Hello"}}
const (
	recordEmotion    = "emotion"
	recordTranscript = "transcript"
)

type rawRecord struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// record is one decoded capture line.
type record struct {
	at         time.Time
	emotion    *models.EmotionSnapshot
	transcript *models.TranscriptSegment
}

// readCapture decodes a JSONL capture. Blank lines are skipped; any other
// malformed line fails with its line number.
func readCapture(r io.Reader) ([]record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)

	var out []record
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var raw rawRecord
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read capture: %w", err)
	}
	return out, nil
}

func decodeRecord(raw rawRecord) (record, error) {
	switch raw.Type {
	case recordEmotion:
		var s models.EmotionSnapshot
		if err := json.Unmarshal(raw.Data, &s); err != nil {
			return record{}, fmt.Errorf("emotion record: %w", err)
		}
		return record{at: s.Timestamp, emotion: &s}, nil
	case recordTranscript:
		var s models.TranscriptSegment
		if err := json.Unmarshal(raw.Data, &s); err != nil {
			return record{}, fmt.Errorf("transcript record: %w", err)
		}
		return record{at: s.Timestamp, transcript: &s}, nil
	}
	return record{}, fmt.Errorf("unknown record type %q", raw.Type)
}

// restamp moves the record to at, keeping everything else.
func (r *record) restamp(at time.Time) {
	r.at = at
	if r.emotion != nil {
		r.emotion.Timestamp = at
	}
	if r.transcript != nil {
		r.transcript.Timestamp = at
	}
}

// gap is how long to wait between prev and next at the given speed.
// Out-of-order records and speed <= 0 do not wait.
func gap(prev, next time.Time, speed float64) time.Duration {
	if speed <= 0 || prev.IsZero() || next.IsZero() || !next.After(prev) {
		return 0
	}
	return time.Duration(float64(next.Sub(prev)) / speed)
}

// localLog is an append-only in-memory log read by a Syncer.
type localLog[T any] struct {
	mu    sync.Mutex
	items []T
}

func (l *localLog[T]) append(v T) {
	l.mu.Lock()
	l.items = append(l.items, v)
	l.mu.Unlock()
}

// source implements sync.Source.
func (l *localLog[T]) source(from int) ([]T, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.items)
	if from >= n {
		return nil, n
	}
	out := make([]T, n-from)
	copy(out, l.items[from:])
	return out, n
}

func (l *localLog[T]) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}
