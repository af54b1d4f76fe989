// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package analytics

import (
	"time"

	"github.com/tomtom215/moodmeet/internal/models"
)

const (
	// TimeSlack is how far outside the meeting a timestamp may fall, for
	// producer clocks that drift or start before the host.
	TimeSlack = 5 * time.Minute

	// MaxMeetingSpan bounds a meeting that has not ended yet.
	MaxMeetingSpan = 24 * time.Hour
)

// TimeWindow is the closed range of timestamps a meeting's items may carry.
// The zero window accepts every time.
type TimeWindow struct {
	From time.Time
	To   time.Time
}

// MeetingWindow is [StartTime-TimeSlack, end+TimeSlack], where end is
// EndTime or, while the meeting runs, StartTime+MaxMeetingSpan. A meeting
// without a start time gets the zero window.
func MeetingWindow(m *models.Meeting) TimeWindow {
	if m.StartTime.IsZero() {
		return TimeWindow{}
	}
	return windowFrom(m.StartTime, m.EndTime)
}

// LiveWindow is MeetingWindow for a meeting that has not ended.
func LiveWindow(start time.Time) TimeWindow {
	if start.IsZero() {
		return TimeWindow{}
	}
	return windowFrom(start, nil)
}

func windowFrom(start time.Time, end *time.Time) TimeWindow {
	to := start.Add(MaxMeetingSpan)
	if end != nil && !end.Before(start) {
		to = *end
	}
	return TimeWindow{From: start.Add(-TimeSlack), To: to.Add(TimeSlack)}
}

// Contains reports whether t lies in w.
func (w TimeWindow) Contains(t time.Time) bool {
	if w.From.IsZero() && w.To.IsZero() {
		return true
	}
	return !t.Before(w.From) && !t.After(w.To)
}

// Snapshots returns the items of in whose timestamp lies in w, in order,
// and how many were left out.
func (w TimeWindow) Snapshots(in []models.EmotionSnapshot) ([]models.EmotionSnapshot, int) {
	out := make([]models.EmotionSnapshot, 0, len(in))
	for i := range in {
		if w.Contains(in[i].Timestamp) {
			out = append(out, in[i])
		}
	}
	return out, len(in) - len(out)
}

// Segments is Snapshots for the transcript log.
func (w TimeWindow) Segments(in []models.TranscriptSegment) ([]models.TranscriptSegment, int) {
	out := make([]models.TranscriptSegment, 0, len(in))
	for i := range in {
		if w.Contains(in[i].Timestamp) {
			out = append(out, in[i])
		}
	}
	return out, len(in) - len(out)
}
