// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package analytics

import (
	"sort"

	"github.com/tomtom215/moodmeet/internal/models"
)

// Distribution is the pie view: one slice per category present, percentage
// round(100*count/total), sorted by count descending. Equal counts keep
// first-seen order.
func Distribution(log []models.EmotionSnapshot) []models.PieSlice {
	snaps, _ := CleanSnapshots(log)
	t := newTally()
	for i := range snaps {
		t.add(snaps[i].Emotion)
	}

	slices := make([]models.PieSlice, 0, len(t.order))
	for _, e := range t.order {
		c := t.counts[e]
		slices = append(slices, models.PieSlice{
			Emotion:    e,
			Count:      c,
			Percentage: percent(c, t.total),
		})
	}
	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Count > slices[j].Count
	})
	return slices
}
