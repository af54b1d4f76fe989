// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package llm

import (
	"math"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tomtom215/moodmeet/internal/models"
)

// rawSummary accepts the looser shapes models return in practice: key
// moments as objects instead of strings, fractional scores.
type rawSummary struct {
	KeyMoments       []json.RawMessage `json:"keyMoments"`
	EmotionalArc     string            `json:"emotionalArc"`
	ActionItems      []string          `json:"actionItems"`
	PresenterScore   float64           `json:"presenterScore"`
	PresenterTips    []string          `json:"presenterTips"`
	OverallSentiment string            `json:"overallSentiment"`
}

// ParseSummary decodes a summary response. Markdown code fences are
// stripped first. Text that does not decode becomes the emotional arc of an
// otherwise empty summary with sentiment "unknown".
func ParseSummary(text string) *models.AISummary {
	cleaned := stripFences(text)

	var raw rawSummary
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return &models.AISummary{
			KeyMoments:       []string{},
			EmotionalArc:     text,
			ActionItems:      []string{},
			PresenterTips:    []string{},
			OverallSentiment: "unknown",
		}
	}

	out := &models.AISummary{
		KeyMoments:       make([]string, 0, len(raw.KeyMoments)),
		EmotionalArc:     raw.EmotionalArc,
		ActionItems:      nonNil(raw.ActionItems),
		PresenterScore:   int(math.Round(math.Max(0, math.Min(100, raw.PresenterScore)))),
		PresenterTips:    nonNil(raw.PresenterTips),
		OverallSentiment: raw.OverallSentiment,
	}
	for _, m := range raw.KeyMoments {
		if s := keyMoment(m); s != "" {
			out.KeyMoments = append(out.KeyMoments, s)
		}
	}
	return out
}

func keyMoment(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	for _, k := range []string{"description", "moment", "text", "summary"} {
		if v, ok := obj[k].(string); ok && v != "" {
			if ts, ok := obj["timestamp"].(string); ok && ts != "" {
				return ts + " " + v
			}
			return v
		}
	}
	return ""
}

func stripFences(text string) string {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
