// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package models

import (
	"fmt"
	"strings"
)

// Emotion is one of the seven facial-expression categories.
type Emotion string

const (
	EmotionHappy     Emotion = "happy"
	EmotionSad       Emotion = "sad"
	EmotionAngry     Emotion = "angry"
	EmotionDisgusted Emotion = "disgusted"
	EmotionFearful   Emotion = "fearful"
	EmotionNeutral   Emotion = "neutral"
	EmotionSurprised Emotion = "surprised"
)

// AllEmotions lists every category in canonical order. Tie-breaks that need
// a stable order use this one.
var AllEmotions = []Emotion{
	EmotionHappy,
	EmotionSad,
	EmotionAngry,
	EmotionDisgusted,
	EmotionFearful,
	EmotionNeutral,
	EmotionSurprised,
}

// Valid reports whether e is one of the seven categories.
func (e Emotion) Valid() bool {
	switch e {
	case EmotionHappy, EmotionSad, EmotionAngry, EmotionDisgusted,
		EmotionFearful, EmotionNeutral, EmotionSurprised:
		return true
	}
	return false
}

// Bucket maps the category to its sentiment bucket.
// Unknown categories map to SentimentUnknown.
func (e Emotion) Bucket() Sentiment {
	switch e {
	case EmotionHappy, EmotionSurprised:
		return SentimentPositive
	case EmotionNeutral:
		return SentimentNeutral
	case EmotionAngry, EmotionDisgusted, EmotionFearful, EmotionSad:
		return SentimentNegative
	}
	return SentimentUnknown
}

// ParseEmotion accepts any casing and surrounding whitespace.
func ParseEmotion(s string) (Emotion, error) {
	e := Emotion(strings.ToLower(strings.TrimSpace(s)))
	if !e.Valid() {
		return "", fmt.Errorf("unknown emotion %q", s)
	}
	return e, nil
}

// Sentiment is the three-way grouping used by every score and rate.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentUnknown  Sentiment = ""
)
