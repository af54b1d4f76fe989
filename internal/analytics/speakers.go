// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package analytics

import "github.com/tomtom215/moodmeet/internal/models"

type speakerGroup struct {
	key      string
	positive int
	negative int
	segments int
	tally    *tally
}

// Speakers computes per-speaker effectiveness.
//
// Groups are keyed by display name, falling back to participant ID, so two
// distinct participants who share a name are merged into one row. Groups are
// created from the emotion log only; a transcript segment counts toward
// SpeakingSegments only if its speaker already has a group. Rows are in
// first-seen order.
func Speakers(emotions []models.EmotionSnapshot, transcript []models.TranscriptSegment) []models.SpeakerStat {
	snaps, _ := CleanSnapshots(emotions)
	segs, _ := CleanSegments(transcript)

	groups := make(map[string]*speakerGroup)
	var order []*speakerGroup
	for i := range snaps {
		s := &snaps[i]
		key := s.SpeakerKey()
		g, ok := groups[key]
		if !ok {
			g = &speakerGroup{key: key, tally: newTally()}
			groups[key] = g
			order = append(order, g)
		}
		g.tally.add(s.Emotion)
		switch s.Emotion.Bucket() {
		case models.SentimentPositive:
			g.positive++
		case models.SentimentNegative:
			g.negative++
		}
	}

	for i := range segs {
		if g, ok := groups[segs[i].SpeakerKey()]; ok {
			g.segments++
		}
	}

	stats := make([]models.SpeakerStat, 0, len(order))
	for _, g := range order {
		dom, _ := g.tally.dominant()
		stats = append(stats, models.SpeakerStat{
			Speaker:          g.key,
			Total:            g.tally.total,
			PositiveRate:     percent(g.positive, g.tally.total),
			NegativeRate:     percent(g.negative, g.tally.total),
			DominantEmotion:  dom,
			SpeakingSegments: g.segments,
		})
	}
	return stats
}
