// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/moodmeet/internal/models"
)

func fastConfig() Config {
	return Config{
		SyncInterval:      10 * time.Millisecond,
		CoachingInterval:  10 * time.Millisecond,
		MetricsInterval:   10 * time.Millisecond,
		FinalFlushTimeout: time.Second,
	}
}

func TestRunner_ImplementsService(t *testing.T) {
	var _ suture.Service = (*Runner)(nil)
}

func TestRunner_TicksFlushAndPublish(t *testing.T) {
	s := newTestSession(t)
	st := newFakeStore("abc-def-ghi")
	b := &fakeBroadcaster{}
	adv := &fakeAdvisor{}
	r := NewRunner(s, st, adv, b, fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	bg := context.Background()
	_ = s.AppendEmotion(bg, snap(1, "p", models.EmotionHappy))
	_ = s.AppendTranscript(bg, seg(1, "p", "hello"))

	eventually(t, 2*time.Second, func() bool {
		e, tr := st.counts("abc-def-ghi")
		return e == 1 && tr == 1
	}, "sync ticks should deliver both logs")
	eventually(t, 2*time.Second, func() bool { return b.count() > 0 }, "live metrics should be broadcast")
	eventually(t, 2*time.Second, func() bool {
		live, err := r.Live(bg)
		return err == nil && len(live.CoachingTips) == 1
	}, "coaching tick should add one tip")

	live, err := r.Live(bg)
	if err != nil {
		t.Fatal(err)
	}
	if live.Engagement.Score != 100 || live.Engagement.Label != "Excellent" {
		t.Errorf("live engagement = %+v", live.Engagement)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if err := r.FinalFlushErr(bg); err != nil {
		t.Errorf("FinalFlushErr() = %v", err)
	}
}

func TestRunner_FinalFlushDeliversTail(t *testing.T) {
	s := newTestSession(t)
	st := newFakeStore("abc-def-ghi")
	cfg := fastConfig()
	cfg.SyncInterval = time.Hour
	r := NewRunner(s, st, nil, nil, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	bg := context.Background()
	for i := 0; i < 5; i++ {
		_ = s.AppendEmotion(bg, snap(i, "p", models.EmotionSad))
	}
	cancel()
	<-done

	if e, _ := st.counts("abc-def-ghi"); e != 5 {
		t.Errorf("store has %d emotions after final flush, want 5", e)
	}
	if e, tr := r.Cursors(); e != 5 || tr != 0 {
		t.Errorf("Cursors() = %d, %d", e, tr)
	}
}

func TestRunner_FinalFlushFailureIsReported(t *testing.T) {
	s := newTestSession(t)
	st := newFakeStore("abc-def-ghi")
	st.setFail(true)
	cfg := fastConfig()
	cfg.SyncInterval = time.Hour
	r := NewRunner(s, st, nil, nil, cfg)

	_ = s.AppendEmotion(context.Background(), snap(1, "p", models.EmotionSad))
	r.finalFlush()

	if err := r.FinalFlushErr(context.Background()); err == nil {
		t.Error("FinalFlushErr() = nil, want the append failure")
	}
	if e, _ := r.Cursors(); e != 0 {
		t.Errorf("cursor advanced to %d on failure", e)
	}
}

func TestRunner_FailedTickRetriesWithoutLoss(t *testing.T) {
	s := newTestSession(t)
	st := newFakeStore("abc-def-ghi")
	st.setFail(true)
	r := NewRunner(s, st, nil, nil, fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Serve(ctx) }()

	bg := context.Background()
	_ = s.AppendEmotion(bg, snap(1, "p", models.EmotionHappy))
	_ = s.AppendEmotion(bg, snap(2, "p", models.EmotionHappy))
	time.Sleep(50 * time.Millisecond)
	st.setFail(false)

	eventually(t, 2*time.Second, func() bool {
		e, _ := st.counts("abc-def-ghi")
		return e == 2
	}, "items should be delivered once the store recovers")
	time.Sleep(30 * time.Millisecond)
	if e, _ := st.counts("abc-def-ghi"); e != 2 {
		t.Errorf("store has %d emotions, want exactly 2", e)
	}
}
