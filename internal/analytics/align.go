// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package analytics

import (
	"sort"
	"time"

	"github.com/tomtom215/moodmeet/internal/models"
)

// AlignThreshold is the largest gap at which a segment still takes the
// nearest snapshot's emotion. A gap of exactly AlignThreshold is aligned.
const AlignThreshold = 10 * time.Second

// Align attaches to every transcript segment the emotion of the snapshot
// nearest in time. Snapshots are searched with a binary search over the
// sorted log; when two are equally near the earlier one wins. Segments are
// returned in time order.
func Align(transcript []models.TranscriptSegment, emotions []models.EmotionSnapshot) []models.AlignedSegment {
	segs, _ := CleanSegments(transcript)
	snaps, _ := CleanSnapshots(emotions)

	out := make([]models.AlignedSegment, 0, len(segs))
	for _, seg := range segs {
		as := models.AlignedSegment{Segment: seg}
		if snap, delta, ok := nearest(snaps, seg.Timestamp); ok && delta <= AlignThreshold {
			as.Emotion = snap.Emotion
			as.DeltaMs = delta.Milliseconds()
			as.Aligned = true
		}
		out = append(out, as)
	}
	return out
}

// nearest expects snaps sorted by timestamp.
func nearest(snaps []models.EmotionSnapshot, t time.Time) (models.EmotionSnapshot, time.Duration, bool) {
	if len(snaps) == 0 {
		return models.EmotionSnapshot{}, 0, false
	}
	// First index with timestamp >= t.
	i := sort.Search(len(snaps), func(i int) bool {
		return !snaps[i].Timestamp.Before(t)
	})

	best := -1
	var bestDelta time.Duration
	// The earlier candidate goes first so it wins ties.
	for _, j := range []int{i - 1, i} {
		if j < 0 || j >= len(snaps) {
			continue
		}
		d := absDuration(snaps[j].Timestamp.Sub(t))
		if best == -1 || d < bestDelta {
			best, bestDelta = j, d
		}
	}
	return snaps[best], bestDelta, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
