// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/moodmeet/internal/models"
)

func TestBucketCount(t *testing.T) {
	tests := []struct {
		name string
		span time.Duration
		w    time.Duration
		want int
	}{
		{"single instant", 0, 5 * time.Second, 1},
		{"under one width", 4 * time.Second, 5 * time.Second, 1},
		{"exact multiple", 10 * time.Second, 5 * time.Second, 2},
		{"just over", 10*time.Second + time.Millisecond, 5 * time.Second, 3},
		{"nine seconds", 9 * time.Second, 5 * time.Second, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BucketCount(tt.span, tt.w); got != tt.want {
				t.Errorf("BucketCount(%v, %v) = %d, want %d", tt.span, tt.w, got, tt.want)
			}
		})
	}
}

func TestPartitionCoversRange(t *testing.T) {
	spans := []float64{0, 0.5, 4.999, 5, 7, 10, 23.4, 60}
	for _, maxSec := range spans {
		items := []models.EmotionSnapshot{
			snap(maxSec, "a", models.EmotionSad),
			snap(0, "a", models.EmotionHappy),
			snap(maxSec/2, "a", models.EmotionNeutral),
		}
		buckets, err := Partition(items, snapshotTime, HeatmapWidth)
		if err != nil {
			t.Fatalf("Partition: %v", err)
		}

		want := BucketCount(at(maxSec).Sub(t0), HeatmapWidth)
		if len(buckets) != want {
			t.Errorf("span %.3fs: %d buckets, want %d", maxSec, len(buckets), want)
		}

		total := 0
		for i, b := range buckets {
			if !b.Start.Equal(t0.Add(time.Duration(i) * HeatmapWidth)) {
				t.Errorf("bucket %d starts at %v", i, b.Start)
			}
			total += len(b.Items)
		}
		if total != len(items) {
			t.Errorf("span %.3fs: %d items bucketed, want %d", maxSec, total, len(items))
		}
		foundMin := false
		for _, s := range buckets[0].Items {
			foundMin = foundMin || s.Timestamp.Equal(t0)
		}
		if !foundMin {
			t.Errorf("span %.3fs: min not in first bucket", maxSec)
		}
		foundMax := false
		for _, s := range buckets[len(buckets)-1].Items {
			foundMax = foundMax || s.Timestamp.Equal(at(maxSec))
		}
		if !foundMax {
			t.Errorf("span %.3fs: max not in last bucket", maxSec)
		}
	}
}

func TestPartitionErrors(t *testing.T) {
	if _, err := Partition([]models.EmotionSnapshot{}, snapshotTime, HeatmapWidth); !errors.Is(err, ErrEmptyLog) {
		t.Errorf("empty log: got %v, want ErrEmptyLog", err)
	}
	items := []models.EmotionSnapshot{snap(0, "a", models.EmotionHappy)}
	if _, err := Partition(items, snapshotTime, 0); !errors.Is(err, ErrInvalidWidth) {
		t.Errorf("zero width: got %v, want ErrInvalidWidth", err)
	}
}

func TestPartitionHalfOpen(t *testing.T) {
	items := []models.EmotionSnapshot{
		snap(0, "a", models.EmotionHappy),
		snap(5, "a", models.EmotionSad),
		snap(12, "a", models.EmotionSad),
	}
	buckets, err := Partition(items, snapshotTime, HeatmapWidth)
	if err != nil {
		t.Fatal(err)
	}
	if len(buckets) != 3 {
		t.Fatalf("got %d buckets, want 3", len(buckets))
	}
	// t=5s opens the second window rather than closing the first.
	if len(buckets[0].Items) != 1 || len(buckets[1].Items) != 1 || len(buckets[2].Items) != 1 {
		t.Errorf("unexpected distribution %d/%d/%d",
			len(buckets[0].Items), len(buckets[1].Items), len(buckets[2].Items))
	}
}

func TestPartitionRejectsHugeSpan(t *testing.T) {
	epoch := snap(0, "a", models.EmotionHappy)
	epoch.Timestamp = time.Unix(0, 0).UTC()
	items := []models.EmotionSnapshot{epoch, snap(0, "a", models.EmotionSad)}
	if _, err := Partition(items, snapshotTime, HeatmapWidth); !errors.Is(err, ErrSpanTooLarge) {
		t.Errorf("epoch span: got %v, want ErrSpanTooLarge", err)
	}

	tests := []struct {
		name    string
		windows int
		wantErr bool
	}{
		{"one under the cap", MaxBuckets - 1, false},
		{"at the cap", MaxBuckets, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec := float64(tt.windows) * HeatmapWidth.Seconds()
			items := []models.EmotionSnapshot{snap(0, "a", models.EmotionHappy), snap(sec, "a", models.EmotionSad)}
			buckets, err := Partition(items, snapshotTime, HeatmapWidth)
			if gotErr := errors.Is(err, ErrSpanTooLarge); gotErr != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(buckets) != tt.windows {
				t.Errorf("got %d buckets, want %d", len(buckets), tt.windows)
			}
		})
	}
}

func TestViewsStayEmptyOnHugeSpan(t *testing.T) {
	epoch := snap(0, "a", models.EmotionHappy)
	epoch.Timestamp = time.Unix(0, 0).UTC()
	log := []models.EmotionSnapshot{epoch, snap(3, "a", models.EmotionSad)}
	if got := Heatmap(log); len(got) != 0 {
		t.Errorf("Heatmap = %d cells, want 0", len(got))
	}
	if got := Timeline(log); len(got) != 0 {
		t.Errorf("Timeline = %d points, want 0", len(got))
	}
}
