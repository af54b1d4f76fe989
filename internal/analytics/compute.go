// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package analytics

import (
	"github.com/tomtom215/moodmeet/internal/engagement"
	"github.com/tomtom215/moodmeet/internal/models"
)

// Compute runs every reduction over one meeting. Items stamped outside
// MeetingWindow are excluded along with the invalid ones.
func Compute(m *models.Meeting) *models.MeetingAnalytics {
	w := MeetingWindow(m)
	inSnaps, outSnaps := w.Snapshots(m.EmotionData)
	inSegs, outSegs := w.Segments(m.Transcripts)
	snaps, droppedSnaps := CleanSnapshots(inSnaps)
	segs, droppedSegs := CleanSegments(inSegs)

	return &models.MeetingAnalytics{
		Code:         m.Code,
		Title:        m.Title,
		Status:       m.Status,
		DurationMs:   m.Duration().Milliseconds(),
		Participants: len(m.Participants),
		Snapshots:    len(snaps),
		Segments:     len(segs),
		Excluded:     outSnaps + outSegs + droppedSnaps + droppedSegs,
		Engagement:   engagement.Average(snaps),
		Heatmap:      Heatmap(snaps),
		Timeline:     Timeline(snaps),
		Distribution: Distribution(snaps),
		Speakers:     Speakers(snaps, segs),
		Alignment:    Align(segs, snaps),
		AISummary:    m.AISummary,
	}
}
