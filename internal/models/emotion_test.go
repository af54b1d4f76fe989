// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package models

import (
	"testing"
	"time"
)

func TestEmotionBucket(t *testing.T) {
	tests := []struct {
		emotion Emotion
		want    Sentiment
	}{
		{EmotionHappy, SentimentPositive},
		{EmotionSurprised, SentimentPositive},
		{EmotionNeutral, SentimentNeutral},
		{EmotionAngry, SentimentNegative},
		{EmotionDisgusted, SentimentNegative},
		{EmotionFearful, SentimentNegative},
		{EmotionSad, SentimentNegative},
		{Emotion("bored"), SentimentUnknown},
	}
	for _, tt := range tests {
		t.Run(string(tt.emotion), func(t *testing.T) {
			if got := tt.emotion.Bucket(); got != tt.want {
				t.Errorf("Bucket() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAllEmotionsValid(t *testing.T) {
	if len(AllEmotions) != 7 {
		t.Fatalf("expected 7 categories, got %d", len(AllEmotions))
	}
	seen := make(map[Emotion]bool)
	for _, e := range AllEmotions {
		if !e.Valid() {
			t.Errorf("%q should be valid", e)
		}
		if seen[e] {
			t.Errorf("%q listed twice", e)
		}
		seen[e] = true
	}
}

func TestParseEmotion(t *testing.T) {
	got, err := ParseEmotion("  Happy ")
	if err != nil {
		t.Fatalf("ParseEmotion: %v", err)
	}
	if got != EmotionHappy {
		t.Errorf("got %q, want happy", got)
	}
	if _, err := ParseEmotion("contempt"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestSpeakerKeyFallback(t *testing.T) {
	s := EmotionSnapshot{ParticipantID: "p1"}
	if s.SpeakerKey() != "p1" {
		t.Errorf("SpeakerKey() = %q, want p1", s.SpeakerKey())
	}
	s.ParticipantName = "Ana"
	if s.SpeakerKey() != "Ana" {
		t.Errorf("SpeakerKey() = %q, want Ana", s.SpeakerKey())
	}
	seg := TranscriptSegment{ParticipantID: "p2"}
	if seg.SpeakerKey() != "p2" {
		t.Errorf("segment SpeakerKey() = %q, want p2", seg.SpeakerKey())
	}
}

func TestMeetingDuration(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m := Meeting{StartTime: start}
	if m.Duration() != 0 {
		t.Error("running meeting should report zero duration")
	}
	end := start.Add(45 * time.Minute)
	m.EndTime = &end
	if m.Duration() != 45*time.Minute {
		t.Errorf("Duration() = %v", m.Duration())
	}
}
