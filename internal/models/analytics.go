// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package models

import "time"

// HeatmapCell is one 5-second bucket with its dominant emotion.
type HeatmapCell struct {
	Start    time.Time `json:"start"`
	OffsetMs int64     `json:"offsetMs"`
	Emotion  Emotion   `json:"emotion"`
	Count    int       `json:"count"`
}

// TimelinePoint is one 10-second bucket with a count per category.
type TimelinePoint struct {
	Start    time.Time       `json:"start"`
	OffsetMs int64           `json:"offsetMs"`
	Counts   map[Emotion]int `json:"counts"`
	Total    int             `json:"total"`
}

// PieSlice is one category of the global distribution.
type PieSlice struct {
	Emotion    Emotion `json:"emotion"`
	Count      int     `json:"count"`
	Percentage int     `json:"percentage"`
}

// SpeakerStat summarises one speaker group. Groups are keyed by display
// name, so two participants sharing a name share a row.
type SpeakerStat struct {
	Speaker          string  `json:"speaker"`
	Total            int     `json:"total"`
	PositiveRate     int     `json:"positiveRate"`
	NegativeRate     int     `json:"negativeRate"`
	DominantEmotion  Emotion `json:"dominantEmotion,omitempty"`
	SpeakingSegments int     `json:"speakingSegments"`
}

// AlignedSegment attaches the nearest emotion to a transcript segment.
// Emotion is empty when no snapshot is close enough.
type AlignedSegment struct {
	Segment TranscriptSegment `json:"segment"`
	Emotion Emotion           `json:"emotion,omitempty"`
	DeltaMs int64             `json:"deltaMs,omitempty"`
	Aligned bool              `json:"aligned"`
}

// TrendPoint is the positive share of one completed meeting.
type TrendPoint struct {
	Code              string    `json:"code"`
	Title             string    `json:"title"`
	StartTime         time.Time `json:"startTime"`
	PositiveSentiment int       `json:"positiveSentiment"`
	Snapshots         int       `json:"snapshots"`
}

// MeetingAnalytics bundles every reduction for one meeting.
type MeetingAnalytics struct {
	Code         string           `json:"code"`
	Title        string           `json:"title"`
	Status       MeetingStatus    `json:"status"`
	DurationMs   int64            `json:"durationMs"`
	Participants int              `json:"participants"`
	Snapshots    int              `json:"snapshots"`
	Segments     int              `json:"segments"`
	Excluded     int              `json:"excluded"`
	Engagement   EngagementScore  `json:"engagement"`
	Heatmap      []HeatmapCell    `json:"heatmap"`
	Timeline     []TimelinePoint  `json:"timeline"`
	Distribution []PieSlice       `json:"distribution"`
	Speakers     []SpeakerStat    `json:"speakers"`
	Alignment    []AlignedSegment `json:"alignment"`
	AISummary    *AISummary       `json:"aiSummary,omitempty"`
}
