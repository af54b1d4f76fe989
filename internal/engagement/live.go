// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package engagement

import "github.com/tomtom215/moodmeet/internal/models"

// LiveInput is a point-in-time view of a running meeting.
type LiveInput struct {
	Code           string
	Status         models.MeetingStatus
	Emotions       []models.EmotionSnapshot
	SegmentCount   int
	LocalEmotion   models.Emotion
	RemoteEmotions map[string]models.Emotion
	Tips           []models.CoachingTip
}

// Live assembles the metrics broadcast to a meeting room.
func Live(in LiveInput) models.LiveMetrics {
	remote := make(map[string]models.Emotion, len(in.RemoteEmotions))
	for id, e := range in.RemoteEmotions {
		remote[id] = e
	}
	tips := in.Tips
	if tips == nil {
		tips = []models.CoachingTip{}
	}
	return models.LiveMetrics{
		Code:           in.Code,
		Status:         in.Status,
		Engagement:     Score(in.Emotions),
		LocalEmotion:   in.LocalEmotion,
		RemoteEmotions: remote,
		CoachingTips:   tips,
		EmotionCount:   len(in.Emotions),
		SegmentCount:   in.SegmentCount,
	}
}
