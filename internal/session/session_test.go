// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package session

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/moodmeet/internal/models"
)

func TestSession_AppendValidation(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	bad := []struct {
		name string
		snap models.EmotionSnapshot
	}{
		{"unknown emotion", models.EmotionSnapshot{ParticipantID: "p", Timestamp: t0, Emotion: "bored", Confidence: 0.5}},
		{"confidence above one", models.EmotionSnapshot{ParticipantID: "p", Timestamp: t0, Emotion: models.EmotionSad, Confidence: 1.5}},
		{"confidence NaN", models.EmotionSnapshot{ParticipantID: "p", Timestamp: t0, Emotion: models.EmotionSad, Confidence: math.NaN()}},
		{"zero timestamp", models.EmotionSnapshot{ParticipantID: "p", Emotion: models.EmotionSad, Confidence: 0.5}},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.AppendEmotion(ctx, tt.snap); !errors.Is(err, ErrInvalidItem) {
				t.Errorf("AppendEmotion() error = %v, want ErrInvalidItem", err)
			}
		})
	}
	if err := s.AppendTranscript(ctx, seg(1, "p", "  \t")); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("blank transcript error = %v, want ErrInvalidItem", err)
	}

	added, rejected, err := s.AppendEmotions(ctx, []models.EmotionSnapshot{
		snap(1, "p", models.EmotionHappy), bad[0].snap, snap(2, "p", models.EmotionSad),
	})
	if err != nil || added != 2 || rejected != 1 {
		t.Errorf("AppendEmotions() = %d, %d, %v; want 2, 1, nil", added, rejected, err)
	}

	st, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Emotions) != 2 || len(st.Transcript) != 0 {
		t.Errorf("logs = %d emotions, %d segments", len(st.Emotions), len(st.Transcript))
	}
}

func TestSession_RejectsOutOfWindowTimestamps(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	epoch := snap(0, "p", models.EmotionHappy)
	epoch.Timestamp = time.Unix(0, 0).UTC()
	late := snap(0, "p", models.EmotionHappy)
	late.Timestamp = t0.Add(48 * time.Hour)
	early := snap(0, "p", models.EmotionHappy)
	early.Timestamp = t0.Add(-time.Minute)

	for name, sn := range map[string]models.EmotionSnapshot{"epoch": epoch, "two days late": late} {
		if err := s.AppendEmotion(ctx, sn); !errors.Is(err, ErrInvalidItem) {
			t.Errorf("%s: AppendEmotion() error = %v, want ErrInvalidItem", name, err)
		}
	}
	// Producer clocks a little behind the host are tolerated.
	if err := s.AppendEmotion(ctx, early); err != nil {
		t.Errorf("AppendEmotion(1m early) error = %v", err)
	}

	added, rejected, err := s.AppendEmotions(ctx, []models.EmotionSnapshot{snap(1, "p", models.EmotionSad), epoch})
	if err != nil || added != 1 || rejected != 1 {
		t.Errorf("AppendEmotions() = %d, %d, %v; want 1, 1, nil", added, rejected, err)
	}

	old := seg(0, "p", "hello")
	old.Timestamp = time.Unix(0, 0).UTC()
	if err := s.AppendTranscript(ctx, old); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("AppendTranscript(epoch) error = %v, want ErrInvalidItem", err)
	}
	added, rejected, err = s.AppendTranscripts(ctx, []models.TranscriptSegment{old, seg(2, "p", "hi")})
	if err != nil || added != 1 || rejected != 1 {
		t.Errorf("AppendTranscripts() = %d, %d, %v; want 1, 1, nil", added, rejected, err)
	}

	st, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Emotions) != 2 || len(st.Transcript) != 1 {
		t.Errorf("logs = %d emotions, %d segments; want 2, 1", len(st.Emotions), len(st.Transcript))
	}
}

func TestSession_SnapshotIsIsolated(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := s.AppendEmotion(ctx, snap(i, "p", models.EmotionHappy)); err != nil {
			t.Fatal(err)
		}
	}

	st, _ := s.Snapshot(ctx)
	st.Emotions[0].Emotion = models.EmotionAngry
	st.Emotions = append(st.Emotions, snap(9, "x", models.EmotionSad))

	again, _ := s.Snapshot(ctx)
	if len(again.Emotions) != 3 || again.Emotions[0].Emotion != models.EmotionHappy {
		t.Errorf("live log changed through a snapshot: %+v", again.Emotions)
	}

	items, n := s.EmotionsFrom(1)
	if n != 3 || len(items) != 2 || !items[0].Timestamp.Equal(t0.Add(time.Second)) {
		t.Errorf("EmotionsFrom(1) = %d items, n=%d", len(items), n)
	}
	if items, n = s.EmotionsFrom(5); items != nil || n != 3 {
		t.Errorf("EmotionsFrom past end = %v, %d", items, n)
	}
}

func TestSession_ConcurrentProducersKeepOrder(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	const producers, each = 4, 50
	names := []string{"a", "b", "c", "d"}
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(who string) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				if err := s.AppendEmotion(ctx, snap(i, who, models.EmotionNeutral)); err != nil {
					t.Error(err)
					return
				}
			}
		}(names[p])
	}
	wg.Wait()

	st, _ := s.Snapshot(ctx)
	if len(st.Emotions) != producers*each {
		t.Fatalf("log length = %d, want %d", len(st.Emotions), producers*each)
	}
	last := make(map[string]time.Time)
	for _, e := range st.Emotions {
		if prev, ok := last[e.ParticipantID]; ok && !e.Timestamp.After(prev) {
			t.Fatalf("producer %s items out of order", e.ParticipantID)
		}
		last[e.ParticipantID] = e.Timestamp
	}
}

func TestSession_Roster(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	if err := s.Join(ctx, models.Participant{ID: "p1", Name: "Ana", JoinedAt: t0}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetRemoteEmotion(ctx, "p1", models.EmotionHappy); err != nil {
		t.Fatal(err)
	}
	if err := s.Leave(ctx, "p1", t0.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	st, _ := s.Snapshot(ctx)
	if st.Status != models.StatusActive {
		t.Errorf("status = %s, want active after first join", st.Status)
	}
	if st.Participants[0].LeftAt == nil {
		t.Error("LeftAt not set")
	}
	if _, ok := st.RemoteEmotions["p1"]; ok {
		t.Error("remote emotion kept after leave")
	}

	if err := s.Join(ctx, models.Participant{ID: "p1", Name: "Ana B", JoinedAt: t0.Add(2 * time.Minute)}); err != nil {
		t.Fatal(err)
	}
	st, _ = s.Snapshot(ctx)
	if len(st.Participants) != 1 || st.Participants[0].LeftAt != nil || st.Participants[0].Name != "Ana B" {
		t.Errorf("after rejoin: %+v", st.Participants)
	}

	if err := s.SetLocalEmotion(ctx, "bored"); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("SetLocalEmotion(bored) error = %v", err)
	}
}

func TestSession_Closed(t *testing.T) {
	s := New(testMeeting("abc-def-ghi"))
	ctx := context.Background()
	if err := s.AppendTranscript(ctx, seg(1, "p", "hello")); err != nil {
		t.Fatal(err)
	}
	s.Close()
	s.Close()

	if err := s.AppendTranscript(ctx, seg(2, "p", "again")); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("append after Close error = %v, want ErrSessionClosed", err)
	}
	if err := s.Join(ctx, models.Participant{ID: "p"}); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("join after Close error = %v, want ErrSessionClosed", err)
	}

	st, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot after Close error = %v", err)
	}
	if len(st.Transcript) != 1 {
		t.Errorf("final transcript length = %d, want 1", len(st.Transcript))
	}
}

func TestSession_Tail(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		_ = s.AppendEmotion(ctx, snap(i, "p", models.EmotionHappy))
	}
	_ = s.AppendTranscript(ctx, seg(1, "p", "only line"))

	e, tr, err := s.Tail(ctx, 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(e) != 10 || !e[0].Timestamp.Equal(t0.Add(2*time.Second)) {
		t.Errorf("emotion tail = %d items starting %v", len(e), e[0].Timestamp)
	}
	if len(tr) != 1 {
		t.Errorf("transcript tail = %d items", len(tr))
	}
}
