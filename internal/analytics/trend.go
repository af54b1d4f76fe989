// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package analytics

import (
	"sort"

	"github.com/tomtom215/moodmeet/internal/models"
)

// Trend returns the positive share of each meeting, oldest first. Meetings
// with no valid snapshots are left out entirely: a missing point means "no
// data", a 0 would claim "no positivity".
func Trend(meetings []models.Meeting) []models.TrendPoint {
	points := make([]models.TrendPoint, 0, len(meetings))
	for i := range meetings {
		m := &meetings[i]
		inWindow, _ := MeetingWindow(m).Snapshots(m.EmotionData)
		snaps, _ := CleanSnapshots(inWindow)
		if len(snaps) == 0 {
			continue
		}
		positive := 0
		for j := range snaps {
			if snaps[j].Emotion.Bucket() == models.SentimentPositive {
				positive++
			}
		}
		points = append(points, models.TrendPoint{
			Code:              m.Code,
			Title:             m.Title,
			StartTime:         m.StartTime,
			PositiveSentiment: percent(positive, len(snaps)),
			Snapshots:         len(snaps),
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].StartTime.Before(points[j].StartTime)
	})
	return points
}
