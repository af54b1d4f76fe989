// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/moodmeet/internal/metrics"
	"github.com/tomtom215/moodmeet/internal/models"
)

type relayed struct {
	code, msgType string
	ev            *Event
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	msgs []relayed
}

func (f *fakeBroadcaster) BroadcastToRoom(code, msgType string, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, _ := data.(*Event)
	f.msgs = append(f.msgs, relayed{code, msgType, ev})
}

func (f *fakeBroadcaster) topics() map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int{}
	for _, m := range f.msgs {
		out[m.ev.Topic]++
	}
	return out
}

type fakeSummarizer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSummarizer) Generate(_ context.Context, code string) (*models.AISummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.AISummary{OverallSentiment: "positive", EmotionalArc: "steady for " + code}, nil
}

func (f *fakeSummarizer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func fastRetries() RouterConfig {
	return RouterConfig{
		CloseTimeout:         time.Second,
		RetryMaxRetries:      2,
		RetryInitialInterval: time.Millisecond,
		RetryMaxInterval:     5 * time.Millisecond,
		RetryMultiplier:      1.5,
	}
}

// startRouter serves r until the test ends and waits for the subscriptions.
func startRouter(t *testing.T, r *Router, bus *Bus) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = bus.Close()
	})
	select {
	case <-r.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}
}

func TestEncodeDecode(t *testing.T) {
	ev := MeetingEvent(TopicMeetingCreated, &models.Meeting{Code: "ABC123", Title: "Standup", Status: models.StatusWaiting})
	msg, err := encode(ev)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if msg.UUID != ev.ID || msg.Metadata.Get("code") != "ABC123" {
		t.Errorf("message id %q metadata %v", msg.UUID, msg.Metadata)
	}
	got, err := Decode(msg)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Code != "ABC123" || got.Title != "Standup" || got.Status != models.StatusWaiting {
		t.Errorf("decoded %+v", got)
	}

	if _, err := Decode(message.NewMessage("x", []byte("{broken"))); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestRelayAndAutoSummary(t *testing.T) {
	bus := NewInMemoryBus(nil)
	b := &fakeBroadcaster{}
	s := &fakeSummarizer{}
	r := NewRouter(bus, fastRetries())
	Register(r, bus, b, s)
	startRouter(t, r, bus)

	ctx := context.Background()
	if err := bus.Publish(ctx, TopicMeetingCreated, NewEvent("", "ABC123")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := bus.Publish(ctx, TopicMeetingEnded, NewEvent("", "ABC123")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	eventually(t, "summary.generated relay", func() bool {
		return b.topics()[TopicSummaryGenerated] == 1
	})
	got := b.topics()
	if got[TopicMeetingCreated] != 1 || got[TopicMeetingEnded] != 1 {
		t.Errorf("relayed topics %v", got)
	}
	if s.count() != 1 {
		t.Errorf("summarizer called %d times, want 1", s.count())
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, m := range b.msgs {
		if m.code != "ABC123" || m.msgType != MessageTypeMeetingEvent {
			t.Errorf("relayed %q/%q", m.code, m.msgType)
		}
		if m.ev.Topic == TopicSummaryGenerated && (m.ev.Summary == nil || m.ev.Summary.OverallSentiment != "positive") {
			t.Errorf("summary event carried %+v", m.ev.Summary)
		}
	}
}

func TestSummaryFailureIsRetriedThenDropped(t *testing.T) {
	bus := NewInMemoryBus(nil)
	s := &fakeSummarizer{err: errors.New("upstream down")}
	r := NewRouter(bus, fastRetries())
	Register(r, bus, nil, s)
	startRouter(t, r, bus)

	before := testutil.ToFloat64(metrics.EventsHandled.WithLabelValues(TopicMeetingEnded, "dropped"))
	if err := bus.Publish(context.Background(), TopicMeetingEnded, NewEvent("", "ABC123")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	eventually(t, "drop", func() bool {
		return testutil.ToFloat64(metrics.EventsHandled.WithLabelValues(TopicMeetingEnded, "dropped")) == before+1
	})
	// One attempt plus two retries, then acked.
	if s.count() != 3 {
		t.Errorf("summarizer called %d times, want 3", s.count())
	}
	time.Sleep(50 * time.Millisecond)
	if s.count() != 3 {
		t.Errorf("message redelivered after give-up: %d calls", s.count())
	}
}

func TestSummarySkipIsNotRetried(t *testing.T) {
	bus := NewInMemoryBus(nil)
	b := &fakeBroadcaster{}
	s := &fakeSummarizer{err: fmt.Errorf("no key: %w", ErrSkip)}
	r := NewRouter(bus, fastRetries())
	Register(r, bus, b, s)
	startRouter(t, r, bus)

	if err := bus.Publish(context.Background(), TopicMeetingEnded, NewEvent("", "ABC123")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	eventually(t, "ended relay", func() bool { return b.topics()[TopicMeetingEnded] == 1 })
	eventually(t, "summarizer call", func() bool { return s.count() == 1 })
	time.Sleep(50 * time.Millisecond)
	if s.count() != 1 {
		t.Errorf("summarizer called %d times, want 1", s.count())
	}
	if b.topics()[TopicSummaryGenerated] != 0 {
		t.Error("skipped summary should not be announced")
	}
}

func TestPublishAfterClose(t *testing.T) {
	bus := NewInMemoryBus(nil)
	if err := bus.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := bus.Publish(context.Background(), TopicMeetingCreated, NewEvent("", "ABC123")); !errors.Is(err, ErrBusClosed) {
		t.Errorf("Publish after Close = %v, want ErrBusClosed", err)
	}
}

func TestNATSConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*NATSConfig)
		wantErr bool
	}{
		{"defaults", func(*NATSConfig) {}, false},
		{"external url", func(c *NATSConfig) { c.Embedded = false; c.URL = "nats://nats:4222" }, false},
		{"no url no embedded", func(c *NATSConfig) { c.Embedded = false }, true},
		{"bad port", func(c *NATSConfig) { c.Port = 70000 }, true},
		{"zero ack wait", func(c *NATSConfig) { c.AckWait = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultNATSConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
