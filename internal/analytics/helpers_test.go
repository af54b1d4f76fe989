// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package analytics

import (
	"time"

	"github.com/tomtom215/moodmeet/internal/models"
)

var t0 = time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)

func at(sec float64) time.Time {
	return t0.Add(time.Duration(sec * float64(time.Second)))
}

func snap(sec float64, who string, e models.Emotion) models.EmotionSnapshot {
	return models.EmotionSnapshot{
		ParticipantID:   "id-" + who,
		ParticipantName: who,
		Timestamp:       at(sec),
		Emotion:         e,
		Confidence:      0.8,
	}
}

func seg(sec float64, who, text string) models.TranscriptSegment {
	return models.TranscriptSegment{
		ParticipantID:   "id-" + who,
		ParticipantName: who,
		Text:            text,
		Timestamp:       at(sec),
	}
}
