// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package analytics

import "github.com/tomtom215/moodmeet/internal/models"

// tally counts categories and remembers the order each was first seen in.
type tally struct {
	counts map[models.Emotion]int
	order  []models.Emotion
	total  int
}

func newTally() *tally {
	return &tally{counts: make(map[models.Emotion]int, len(models.AllEmotions))}
}

func (t *tally) add(e models.Emotion) {
	if _, ok := t.counts[e]; !ok {
		t.order = append(t.order, e)
	}
	t.counts[e]++
	t.total++
}

// dominant returns the most frequent category. Ties go to the category seen
// first. An empty tally is neutral.
func (t *tally) dominant() (models.Emotion, int) {
	best, bestCount := models.EmotionNeutral, 0
	for _, e := range t.order {
		if c := t.counts[e]; c > bestCount {
			best, bestCount = e, c
		}
	}
	return best, bestCount
}

// Dominant returns the most frequent emotion in snaps and its count, with
// first-seen tie-break. An empty input yields neutral with count 0.
func Dominant(snaps []models.EmotionSnapshot) (models.Emotion, int) {
	t := newTally()
	for i := range snaps {
		t.add(snaps[i].Emotion)
	}
	return t.dominant()
}
