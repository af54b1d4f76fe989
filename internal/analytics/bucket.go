// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package analytics

import (
	"errors"
	"fmt"
	"time"
)

const (
	// HeatmapWidth is the bucket width of the mood heatmap.
	HeatmapWidth = 5 * time.Second

	// TimelineWidth is the bucket width of the emotion timeline.
	TimelineWidth = 10 * time.Second
)

var (
	// ErrEmptyLog is returned when a reduction needs at least one item.
	ErrEmptyLog = errors.New("analytics: empty log")

	// ErrInvalidWidth is returned for a non-positive bucket width.
	ErrInvalidWidth = errors.New("analytics: bucket width must be positive")

	// ErrSpanTooLarge is returned when a log would need more than MaxBuckets.
	ErrSpanTooLarge = errors.New("analytics: log spans too many buckets")
)

// MaxBuckets caps Partition. A full MaxMeetingSpan at HeatmapWidth fits.
const MaxBuckets = 20000

// Bucket is one fixed-width window and the items that fall in it.
type Bucket[T any] struct {
	Start  time.Time
	Offset time.Duration
	Items  []T
}

// BucketCount returns max(1, ceil(span/w)).
func BucketCount(span, w time.Duration) int {
	if span <= 0 {
		return 1
	}
	return int((span + w - 1) / w)
}

// Partition splits items into consecutive windows of width w starting at the
// earliest timestamp. Empty windows are kept. Items keep their input order
// within a window. Input need not be sorted.
func Partition[T any](items []T, at func(T) time.Time, w time.Duration) ([]Bucket[T], error) {
	if w <= 0 {
		return nil, ErrInvalidWidth
	}
	if len(items) == 0 {
		return nil, ErrEmptyLog
	}

	lo, hi := at(items[0]), at(items[0])
	for _, it := range items[1:] {
		t := at(it)
		if t.Before(lo) {
			lo = t
		}
		if t.After(hi) {
			hi = t
		}
	}

	span := hi.Sub(lo)
	if span/w >= MaxBuckets {
		return nil, fmt.Errorf("%w: %s at %s", ErrSpanTooLarge, span, w)
	}
	n := BucketCount(span, w)
	buckets := make([]Bucket[T], n)
	for i := range buckets {
		off := time.Duration(i) * w
		buckets[i] = Bucket[T]{Start: lo.Add(off), Offset: off}
	}
	for _, it := range items {
		i := int(at(it).Sub(lo) / w)
		if i >= n {
			i = n - 1
		}
		buckets[i].Items = append(buckets[i].Items, it)
	}
	return buckets, nil
}
