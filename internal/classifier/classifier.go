// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

// Package classifier turns facial-expression scores into emotion snapshots
// and fronts the external inference service that produces the scores.
package classifier

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/moodmeet/internal/models"
)

var (
	// ErrNotReady means the backend has not finished initializing or its
	// last initialization failed.
	ErrNotReady = errors.New("classifier: not ready")

	// ErrNoFace means the frame held no detectable face. Producers skip the
	// sample.
	ErrNoFace = errors.New("classifier: no face detected")
)

// Scores holds one probability per category.
type Scores map[models.Emotion]float64

// Best returns the highest scoring category. Ties go to the category listed
// first in models.AllEmotions. Empty scores yield neutral with confidence 0.
func (s Scores) Best() (models.Emotion, float64) {
	best, bestScore := models.EmotionNeutral, -1.0
	for _, e := range models.AllEmotions {
		if v, ok := s[e]; ok && v > bestScore {
			best, bestScore = e, v
		}
	}
	if bestScore < 0 {
		return models.EmotionNeutral, 0
	}
	return best, bestScore
}

// Snapshot keeps only the arg-max of s.
func (s Scores) Snapshot(participantID, participantName string, at time.Time) models.EmotionSnapshot {
	e, c := s.Best()
	return models.EmotionSnapshot{
		ParticipantID:   participantID,
		ParticipantName: participantName,
		Timestamp:       at,
		Emotion:         e,
		Confidence:      c,
	}
}

// ParseScores converts a name → score map from the wire, dropping unknown
// names.
func ParseScores(raw map[string]float64) Scores {
	out := make(Scores, len(raw))
	for k, v := range raw {
		if e, err := models.ParseEmotion(k); err == nil {
			out[e] = v
		}
	}
	return out
}

// Classifier scores one encoded video frame.
type Classifier interface {
	Detect(ctx context.Context, frame []byte) (Scores, error)
	State() State
}
