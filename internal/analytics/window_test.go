// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package analytics

import (
	"testing"
	"time"

	"github.com/tomtom215/moodmeet/internal/models"
)

func TestMeetingWindow(t *testing.T) {
	end := t0.Add(time.Minute)
	early := t0.Add(-time.Hour)
	ns := time.Nanosecond

	tests := []struct {
		name string
		m    *models.Meeting
		at   time.Time
		want bool
	}{
		{"no start accepts epoch", &models.Meeting{}, time.Unix(0, 0), true},
		{"slack before start", &models.Meeting{StartTime: t0}, t0.Add(-TimeSlack), true},
		{"past slack before start", &models.Meeting{StartTime: t0}, t0.Add(-TimeSlack - ns), false},
		{"live meeting upper edge", &models.Meeting{StartTime: t0}, t0.Add(MaxMeetingSpan + TimeSlack), true},
		{"live meeting past edge", &models.Meeting{StartTime: t0}, t0.Add(MaxMeetingSpan + TimeSlack + ns), false},
		{"ended meeting upper edge", &models.Meeting{StartTime: t0, EndTime: &end}, end.Add(TimeSlack), true},
		{"ended meeting past edge", &models.Meeting{StartTime: t0, EndTime: &end}, end.Add(TimeSlack + ns), false},
		{"end before start counts as live", &models.Meeting{StartTime: t0, EndTime: &early}, t0.Add(time.Hour), true},
		{"epoch", &models.Meeting{StartTime: t0}, time.Unix(0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MeetingWindow(tt.m).Contains(tt.at); got != tt.want {
				t.Errorf("Contains(%s) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}

	if LiveWindow(t0) != MeetingWindow(&models.Meeting{StartTime: t0}) {
		t.Error("LiveWindow differs from the window of a running meeting")
	}
	if w := LiveWindow(time.Time{}); !w.Contains(time.Unix(0, 0)) {
		t.Error("LiveWindow without a start should accept every time")
	}
}

func TestWindowFiltersKeepOrder(t *testing.T) {
	w := LiveWindow(t0)
	far := snap(0, "x", models.EmotionSad)
	far.Timestamp = t0.AddDate(1, 0, 0)
	snaps, out := w.Snapshots([]models.EmotionSnapshot{
		snap(9, "b", models.EmotionHappy), far, snap(1, "a", models.EmotionNeutral),
	})
	if out != 1 || len(snaps) != 2 || snaps[0].ParticipantName != "b" || snaps[1].ParticipantName != "a" {
		t.Errorf("Snapshots = %+v, dropped %d", snaps, out)
	}

	old := seg(0, "x", "hi")
	old.Timestamp = t0.Add(-time.Hour)
	segs, out := w.Segments([]models.TranscriptSegment{old, seg(2, "a", "hello")})
	if out != 1 || len(segs) != 1 || segs[0].Text != "hello" {
		t.Errorf("Segments = %+v, dropped %d", segs, out)
	}
}
