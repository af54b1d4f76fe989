// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package models

import "time"

// EngagementScore is the rolling 0-100 summary of recent affect.
type EngagementScore struct {
	Score int    `json:"score"`
	Label string `json:"label"`
}

// CoachingTip is one generated suggestion for the presenter.
type CoachingTip struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// LiveMetrics is what a running meeting exposes to its room.
type LiveMetrics struct {
	Code           string             `json:"code"`
	Status         MeetingStatus      `json:"status"`
	Engagement     EngagementScore    `json:"engagement"`
	LocalEmotion   Emotion            `json:"localEmotion,omitempty"`
	RemoteEmotions map[string]Emotion `json:"remoteEmotions"`
	CoachingTips   []CoachingTip      `json:"coachingTips"`
	EmotionCount   int                `json:"emotionCount"`
	SegmentCount   int                `json:"segmentCount"`
}
