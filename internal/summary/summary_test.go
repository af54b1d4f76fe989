// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/moodmeet/internal/events"
	"github.com/tomtom215/moodmeet/internal/llm"
	"github.com/tomtom215/moodmeet/internal/models"
	"github.com/tomtom215/moodmeet/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.OpenForTesting()
	if err != nil {
		t.Fatalf("OpenForTesting: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seed(t *testing.T, st *store.Store, code string) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if err := st.Create(ctx, &models.Meeting{Code: code, Title: "Review", HostName: "Ana", Status: models.StatusWaiting, StartTime: now, CreatedAt: now}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	snaps := []models.EmotionSnapshot{{ParticipantID: "p1", ParticipantName: "Ana", Timestamp: now, Emotion: models.EmotionHappy, Confidence: 0.9}}
	if err := st.AppendEmotions(ctx, code, snaps); err != nil {
		t.Fatalf("AppendEmotions: %v", err)
	}
}

func TestGenerateStoresSummary(t *testing.T) {
	st := newStore(t)
	seed(t, st, "abc-def-ghi")

	var prompt string
	gen := llm.GeneratorFunc(func(_ context.Context, p string) (string, error) {
		prompt = p
		return "```json\n{\"keyMoments\":[\"kickoff\"],\"emotionalArc\":\"upbeat\",\"actionItems\":[],\"presenterScore\":81,\"presenterTips\":[],\"overallSentiment\":\"positive\"}\n```", nil
	})
	svc := NewService(st, llm.NewService(gen))

	got, err := svc.Generate(context.Background(), "abc-def-ghi")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got.PresenterScore != 81 || got.OverallSentiment != "positive" {
		t.Errorf("summary %+v", got)
	}
	if !strings.Contains(prompt, "Ana: happy") {
		t.Errorf("prompt missing emotion line:\n%s", prompt)
	}

	m, err := st.Get(context.Background(), "abc-def-ghi")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m.AISummary == nil || m.AISummary.EmotionalArc != "upbeat" {
		t.Errorf("stored summary %+v", m.AISummary)
	}
}

func TestGenerateSkips(t *testing.T) {
	st := newStore(t)
	seed(t, st, "abc-def-ghi")

	_, err := NewService(st, llm.NewService(nil)).Generate(context.Background(), "abc-def-ghi")
	if !errors.Is(err, events.ErrSkip) || !errors.Is(err, llm.ErrNotConfigured) {
		t.Errorf("no key: err = %v", err)
	}

	gen := llm.GeneratorFunc(func(context.Context, string) (string, error) { return "{}", nil })
	_, err = NewService(st, llm.NewService(gen)).Generate(context.Background(), "zzz-zzz-zzz")
	if !errors.Is(err, events.ErrSkip) || !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown meeting: err = %v", err)
	}
}

func TestGenerateUpstreamFailureStoresNothing(t *testing.T) {
	st := newStore(t)
	seed(t, st, "abc-def-ghi")

	gen := llm.GeneratorFunc(func(context.Context, string) (string, error) {
		return "", errors.New("503")
	})
	got, err := NewService(st, llm.NewService(gen)).Generate(context.Background(), "abc-def-ghi")
	if !errors.Is(err, llm.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if errors.Is(err, events.ErrSkip) {
		t.Error("upstream failure should be retryable")
	}
	if got == nil || got.OverallSentiment != "unknown" {
		t.Errorf("placeholder %+v", got)
	}
	m, _ := st.Get(context.Background(), "abc-def-ghi")
	if m.AISummary != nil {
		t.Errorf("placeholder was stored: %+v", m.AISummary)
	}
}
