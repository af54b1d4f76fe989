// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/moodmeet/internal/models"
	"github.com/tomtom215/moodmeet/internal/store"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func snap(sec int, who string, e models.Emotion) models.EmotionSnapshot {
	return models.EmotionSnapshot{
		ParticipantID:   who,
		ParticipantName: who,
		Timestamp:       t0.Add(time.Duration(sec) * time.Second),
		Emotion:         e,
		Confidence:      0.8,
	}
}

func seg(sec int, who, text string) models.TranscriptSegment {
	return models.TranscriptSegment{
		ParticipantID:   who,
		ParticipantName: who,
		Timestamp:       t0.Add(time.Duration(sec) * time.Second),
		Text:            text,
	}
}

func testMeeting(code string) *models.Meeting {
	return &models.Meeting{Code: code, Title: "Review", HostName: "Host", Status: models.StatusWaiting, StartTime: t0}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := New(testMeeting("abc-def-ghi"))
	t.Cleanup(s.Close)
	return s
}

// fakeStore records appends per meeting. failAppends makes every append fail.
type fakeStore struct {
	mu          sync.Mutex
	emotions    map[string][]models.EmotionSnapshot
	transcript  map[string][]models.TranscriptSegment
	ended       map[string]time.Time
	known       map[string]bool
	failAppends bool
}

func newFakeStore(codes ...string) *fakeStore {
	f := &fakeStore{
		emotions:   make(map[string][]models.EmotionSnapshot),
		transcript: make(map[string][]models.TranscriptSegment),
		ended:      make(map[string]time.Time),
		known:      make(map[string]bool),
	}
	for _, c := range codes {
		f.known[c] = true
	}
	return f
}

func (f *fakeStore) AppendEmotions(_ context.Context, code string, items []models.EmotionSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAppends {
		return errors.New("store offline")
	}
	f.emotions[code] = append(f.emotions[code], items...)
	return nil
}

func (f *fakeStore) AppendTranscript(_ context.Context, code string, items []models.TranscriptSegment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAppends {
		return errors.New("store offline")
	}
	f.transcript[code] = append(f.transcript[code], items...)
	return nil
}

func (f *fakeStore) End(_ context.Context, code string, at time.Time) (*models.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.known[code] {
		return nil, store.ErrNotFound
	}
	f.ended[code] = at
	end := at
	return &models.Meeting{Code: code, Status: models.StatusEnded, EndTime: &end}, nil
}

func (f *fakeStore) counts(code string) (emotions, segments int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.emotions[code]), len(f.transcript[code])
}

func (f *fakeStore) setFail(fail bool) {
	f.mu.Lock()
	f.failAppends = fail
	f.mu.Unlock()
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	msgs []string
	last interface{}
}

func (b *fakeBroadcaster) BroadcastToRoom(code, msgType string, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, code+":"+msgType)
	b.last = data
}

func (b *fakeBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.msgs)
}

type fakeAdvisor struct {
	mu    sync.Mutex
	calls int
}

func (a *fakeAdvisor) CoachingTip(_ context.Context, _ []models.EmotionSnapshot, _ []models.TranscriptSegment) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return "Pause for questions.", nil
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, within time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(within)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v: %s", within, msg)
}
