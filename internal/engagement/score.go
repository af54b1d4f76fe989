// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

// Package engagement derives the live values a running meeting shows its
// participants: the rolling engagement score and the coaching tips.
package engagement

import (
	"math"

	"github.com/tomtom215/moodmeet/internal/models"
)

// WindowSize is how many of the most recent snapshots feed the live score.
const WindowSize = 30

// Category weights.
const (
	WeightPositive = 100
	WeightNeutral  = 60
	WeightNegative = 20
)

// LabelNoData is reported for an empty window.
const LabelNoData = "No data"

// Window returns the last WindowSize entries of log, or all of them if the
// meeting is young. The result aliases log; callers must not modify it.
func Window(log []models.EmotionSnapshot) []models.EmotionSnapshot {
	if len(log) <= WindowSize {
		return log
	}
	return log[len(log)-WindowSize:]
}

// Score is the live engagement score over the most recent window of log.
// It depends on the window contents only.
func Score(log []models.EmotionSnapshot) models.EngagementScore {
	return Average(Window(log))
}

// Average weights every snapshot by its sentiment bucket and returns the
// rounded mean with its label. Snapshots with an unknown category are skipped.
func Average(snaps []models.EmotionSnapshot) models.EngagementScore {
	sum, n := 0, 0
	for i := range snaps {
		w, ok := weight(snaps[i].Emotion)
		if !ok {
			continue
		}
		sum += w
		n++
	}
	if n == 0 {
		return models.EngagementScore{Score: 0, Label: LabelNoData}
	}
	score := int(math.Round(float64(sum) / float64(n)))
	return models.EngagementScore{Score: score, Label: Label(score)}
}

// Label maps a score to its display label.
func Label(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Moderate"
	default:
		return "Low"
	}
}

func weight(e models.Emotion) (int, bool) {
	switch e.Bucket() {
	case models.SentimentPositive:
		return WeightPositive, true
	case models.SentimentNeutral:
		return WeightNeutral, true
	case models.SentimentNegative:
		return WeightNegative, true
	}
	return 0, false
}
