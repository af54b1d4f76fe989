// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package sync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// growingLog is a mutex-guarded append-only log of ints.
type growingLog struct {
	mu    sync.Mutex
	items []int
}

func (g *growingLog) append(v ...int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.items = append(g.items, v...)
}

func (g *growingLog) source() Source[int] {
	return func(from int) ([]int, int) {
		g.mu.Lock()
		defer g.mu.Unlock()
		n := len(g.items)
		if from > n {
			return nil, n
		}
		out := make([]int, n-from)
		copy(out, g.items[from:])
		return out, n
	}
}

// recorder records every batch and can be told to fail.
type recorder struct {
	mu      sync.Mutex
	batches [][]int
	fail    error
	during  func() // runs inside Send, before returning
}

func (r *recorder) Send(_ context.Context, items []int) error {
	if r.during != nil {
		r.during()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	cp := append([]int(nil), items...)
	r.batches = append(r.batches, cp)
	return nil
}

func (r *recorder) sent() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []int
	for _, b := range r.batches {
		all = append(all, b...)
	}
	return all
}

func assertInts(t *testing.T, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFlushEmptyIsNoop(t *testing.T) {
	log := &growingLog{}
	rec := &recorder{}
	s := New[int]("emotions", log.source(), rec)

	n, err := s.Flush(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("Flush = %d, %v", n, err)
	}
	if len(rec.batches) != 0 {
		t.Error("sender must not be called for an empty suffix")
	}
}

func TestFlushSendsOnlySuffix(t *testing.T) {
	log := &growingLog{}
	rec := &recorder{}
	s := New[int]("emotions", log.source(), rec)

	log.append(1, 2, 3)
	if n, err := s.Flush(context.Background()); err != nil || n != 3 {
		t.Fatalf("first Flush = %d, %v", n, err)
	}
	log.append(4, 5)
	if n, err := s.Flush(context.Background()); err != nil || n != 2 {
		t.Fatalf("second Flush = %d, %v", n, err)
	}
	if _, err := s.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(rec.batches) != 2 {
		t.Fatalf("sender called %d times, want 2", len(rec.batches))
	}
	assertInts(t, rec.batches[1], []int{4, 5})
	assertInts(t, rec.sent(), []int{1, 2, 3, 4, 5})
	if s.Cursor() != 5 {
		t.Errorf("Cursor = %d, want 5", s.Cursor())
	}
}

func TestFlushFailureKeepsCursor(t *testing.T) {
	log := &growingLog{}
	rec := &recorder{fail: errors.New("store unavailable")}
	s := New[int]("transcript", log.source(), rec)

	log.append(1, 2)
	if _, err := s.Flush(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if s.Cursor() != 0 {
		t.Fatalf("cursor advanced to %d on failure", s.Cursor())
	}

	log.append(3)
	rec.fail = nil
	if n, err := s.Flush(context.Background()); err != nil || n != 3 {
		t.Fatalf("retry Flush = %d, %v", n, err)
	}
	assertInts(t, rec.sent(), []int{1, 2, 3})
}

func TestFlushCursorUsesLengthAtSliceTime(t *testing.T) {
	log := &growingLog{}
	rec := &recorder{}
	s := New[int]("emotions", log.source(), rec)

	log.append(1, 2)
	// Items appended while the send is in flight must stay unsent.
	rec.during = func() { log.append(99) }
	if n, err := s.Flush(context.Background()); err != nil || n != 2 {
		t.Fatalf("Flush = %d, %v", n, err)
	}
	if s.Cursor() != 2 {
		t.Fatalf("Cursor = %d, want 2 (length captured before send)", s.Cursor())
	}

	rec.during = nil
	if n, err := s.Flush(context.Background()); err != nil || n != 1 {
		t.Fatalf("next Flush = %d, %v", n, err)
	}
	assertInts(t, rec.sent(), []int{1, 2, 99})
}

func TestFlushCursorAhead(t *testing.T) {
	items := []int{1, 2, 3}
	src := SliceSource(func() []int { return items })
	s := New[int]("emotions", src, &recorder{})
	if _, err := s.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	items = items[:1]
	if _, err := s.Flush(context.Background()); !errors.Is(err, ErrCursorAhead) {
		t.Errorf("got %v, want ErrCursorAhead", err)
	}
}

func TestConcurrentFlushesNeverOverlap(t *testing.T) {
	log := &growingLog{}
	rec := &recorder{}
	s := New[int]("emotions", log.source(), rec)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			log.append(i)
		}
	}()
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_, _ = s.Flush(context.Background())
			}
		}()
	}
	wg.Wait()
	_, _ = s.Flush(context.Background())

	got := rec.sent()
	if len(got) != 500 {
		t.Fatalf("sent %d items, want 500", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("item %d = %d: gap or duplicate", i, v)
		}
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	log := &growingLog{}
	log.append(1)
	rec := &recorder{}
	s := New[int]("emotions", log.source(), rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Loop(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for s.Cursor() != 1 {
		select {
		case <-deadline:
			t.Fatal("loop never flushed")
		case <-time.After(2 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancel")
	}
}

func TestLoopSurvivesFailures(t *testing.T) {
	log := &growingLog{}
	log.append(1, 2)
	rec := &recorder{fail: errors.New("down")}
	s := New[int]("emotions", log.source(), rec)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	s.Loop(ctx, 5*time.Millisecond)

	if s.Cursor() != 0 {
		t.Errorf("cursor moved despite failures: %d", s.Cursor())
	}
}
