// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package models

import (
	"time"
)

// EmotionSnapshot is an immutable facial-expression sample.
type EmotionSnapshot struct {
	ParticipantID   string    `json:"participantId" validate:"required,max=128"`
	ParticipantName string    `json:"participantName" validate:"max=128"`
	Timestamp       time.Time `json:"timestamp" validate:"required"`
	Emotion         Emotion   `json:"emotion" validate:"required,emotion"`
	Confidence      float64   `json:"confidence" validate:"gte=0,lte=1"`
}

// SpeakerKey is the grouping key for per-speaker views: the display name,
// or the participant ID when no name was captured.
func (s EmotionSnapshot) SpeakerKey() string {
	if s.ParticipantName != "" {
		return s.ParticipantName
	}
	return s.ParticipantID
}

// TranscriptSegment is an immutable finalized speech-recognition result.
type TranscriptSegment struct {
	ParticipantID   string    `json:"participantId" validate:"required,max=128"`
	ParticipantName string    `json:"participantName" validate:"max=128"`
	Text            string    `json:"text" validate:"required,notblank,max=4000"`
	Timestamp       time.Time `json:"timestamp" validate:"required"`
	Sentiment       string    `json:"sentiment,omitempty" validate:"max=32"`
}

// SpeakerKey mirrors EmotionSnapshot.SpeakerKey.
func (s TranscriptSegment) SpeakerKey() string {
	if s.ParticipantName != "" {
		return s.ParticipantName
	}
	return s.ParticipantID
}

// Participant is a roster entry. LeftAt is nil while the participant is present.
type Participant struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	JoinedAt time.Time  `json:"joinedAt"`
	LeftAt   *time.Time `json:"leftAt,omitempty"`
}

// MeetingStatus is the lifecycle state of a meeting.
type MeetingStatus string

const (
	StatusWaiting MeetingStatus = "waiting"
	StatusActive  MeetingStatus = "active"
	StatusEnded   MeetingStatus = "ended"
)

// Meeting is the durable record. EmotionData and Transcripts are the append
// targets of the sync engine.
type Meeting struct {
	Code         string              `json:"code"`
	Title        string              `json:"title"`
	HostName     string              `json:"hostName"`
	Participants []Participant       `json:"participants"`
	EmotionData  []EmotionSnapshot   `json:"emotionData"`
	Transcripts  []TranscriptSegment `json:"transcripts"`
	AISummary    *AISummary          `json:"aiSummary,omitempty"`
	Status       MeetingStatus       `json:"status"`
	StartTime    time.Time           `json:"startTime"`
	EndTime      *time.Time          `json:"endTime,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// Duration is EndTime-StartTime, or zero while the meeting runs.
func (m *Meeting) Duration() time.Duration {
	if m.EndTime == nil {
		return 0
	}
	return m.EndTime.Sub(m.StartTime)
}

// ParticipantNames returns roster names in join order.
func (m *Meeting) ParticipantNames() []string {
	names := make([]string, 0, len(m.Participants))
	for _, p := range m.Participants {
		names = append(names, p.Name)
	}
	return names
}

// AISummary is the generated post-meeting report. Its content is opaque to
// the telemetry pipeline.
type AISummary struct {
	KeyMoments       []string  `json:"keyMoments"`
	EmotionalArc     string    `json:"emotionalArc"`
	ActionItems      []string  `json:"actionItems"`
	PresenterScore   int       `json:"presenterScore"`
	PresenterTips    []string  `json:"presenterTips"`
	OverallSentiment string    `json:"overallSentiment"`
	GeneratedAt      time.Time `json:"generatedAt"`
}

// HistoryPage is one page of ended meetings.
type HistoryPage struct {
	Meetings []Meeting `json:"meetings"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}
