// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/moodmeet/internal/models"
)

type snapshotKey struct {
	participant string
	at          int64
	emotion     models.Emotion
}

type segmentKey struct {
	participant string
	at          int64
	text        string
}

// ValidSnapshot reports whether s can take part in a reduction.
func ValidSnapshot(s *models.EmotionSnapshot) bool {
	if s.Timestamp.IsZero() || !s.Emotion.Valid() {
		return false
	}
	if math.IsNaN(s.Confidence) || s.Confidence < 0 || s.Confidence > 1 {
		return false
	}
	return true
}

// ValidSegment reports whether s can take part in a reduction.
func ValidSegment(s *models.TranscriptSegment) bool {
	return !s.Timestamp.IsZero() && strings.TrimSpace(s.Text) != ""
}

// CleanSnapshots returns the valid, de-duplicated snapshots sorted by time
// (stable, so append order breaks timestamp ties) and how many were dropped.
// The input slice is not modified.
func CleanSnapshots(in []models.EmotionSnapshot) ([]models.EmotionSnapshot, int) {
	out := make([]models.EmotionSnapshot, 0, len(in))
	seen := make(map[snapshotKey]struct{}, len(in))
	for i := range in {
		s := in[i]
		if !ValidSnapshot(&s) {
			continue
		}
		k := snapshotKey{s.ParticipantID, s.Timestamp.UnixNano(), s.Emotion}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, len(in) - len(out)
}

// CleanSegments is CleanSnapshots for the transcript log.
func CleanSegments(in []models.TranscriptSegment) ([]models.TranscriptSegment, int) {
	out := make([]models.TranscriptSegment, 0, len(in))
	seen := make(map[segmentKey]struct{}, len(in))
	for i := range in {
		s := in[i]
		if !ValidSegment(&s) {
			continue
		}
		k := segmentKey{s.ParticipantID, s.Timestamp.UnixNano(), s.Text}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, len(in) - len(out)
}

// percent is round(100*part/total), 0 when total is 0.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
