// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package analytics

import (
	"time"

	"github.com/tomtom215/moodmeet/internal/models"
)

func snapshotTime(s models.EmotionSnapshot) time.Time { return s.Timestamp }

// Heatmap labels each 5s bucket with its dominant emotion. Count is the
// number of snapshots in the bucket. An empty log gives an empty heatmap.
func Heatmap(log []models.EmotionSnapshot) []models.HeatmapCell {
	snaps, _ := CleanSnapshots(log)
	buckets, err := Partition(snaps, snapshotTime, HeatmapWidth)
	if err != nil {
		return []models.HeatmapCell{}
	}

	cells := make([]models.HeatmapCell, len(buckets))
	for i, b := range buckets {
		e, _ := Dominant(b.Items)
		cells[i] = models.HeatmapCell{
			Start:    b.Start,
			OffsetMs: b.Offset.Milliseconds(),
			Emotion:  e,
			Count:    len(b.Items),
		}
	}
	return cells
}

// Timeline counts every category in each 10s bucket. All seven categories are
// present in every point, zeros included.
func Timeline(log []models.EmotionSnapshot) []models.TimelinePoint {
	snaps, _ := CleanSnapshots(log)
	buckets, err := Partition(snaps, snapshotTime, TimelineWidth)
	if err != nil {
		return []models.TimelinePoint{}
	}

	points := make([]models.TimelinePoint, len(buckets))
	for i, b := range buckets {
		counts := make(map[models.Emotion]int, len(models.AllEmotions))
		for _, e := range models.AllEmotions {
			counts[e] = 0
		}
		for _, s := range b.Items {
			counts[s.Emotion]++
		}
		points[i] = models.TimelinePoint{
			Start:    b.Start,
			OffsetMs: b.Offset.Milliseconds(),
			Counts:   counts,
			Total:    len(b.Items),
		}
	}
	return points
}
