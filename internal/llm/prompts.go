// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package llm

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/moodmeet/internal/models"
)

const summarySchema = `{"keyMoments":["moment1","moment2"],"emotionalArc":"description of how emotions changed","actionItems":["item1","item2"],"presenterScore":75,"presenterTips":["tip1","tip2"],"overallSentiment":"positive/negative/neutral/mixed"}`

func coachingPrompt(emotions []models.EmotionSnapshot, transcript []models.TranscriptSegment) string {
	recent := make([]string, len(emotions))
	for i, e := range emotions {
		recent[i] = fmt.Sprintf("%s: %s", e.ParticipantName, e.Emotion)
	}
	lines := make([]string, len(transcript))
	for i, t := range transcript {
		lines[i] = fmt.Sprintf("%s: %s", t.ParticipantName, t.Text)
	}
	return fmt.Sprintf("You are a real-time meeting coach. Based on recent emotions (%s) and transcript:\n%s\n\n"+
		"Give ONE actionable coaching tip in 15 words or less. Be specific and helpful. No preamble.",
		strings.Join(recent, ", "), strings.Join(lines, "\n"))
}

func summaryPrompt(emotions []models.EmotionSnapshot, transcript []models.TranscriptSegment) string {
	var emo strings.Builder
	for i, e := range emotions {
		if i > 0 {
			emo.WriteByte('\n')
		}
		fmt.Fprintf(&emo, "[%s] %s: %s (%d%%)", e.Timestamp.Format("15:04:05"), e.ParticipantName, e.Emotion,
			int(math.Round(e.Confidence*100)))
	}
	var tr strings.Builder
	for i, t := range transcript {
		if i > 0 {
			tr.WriteByte('\n')
		}
		fmt.Fprintf(&tr, "[%s] %s: %s", t.Timestamp.Format("15:04:05"), t.ParticipantName, t.Text)
	}

	emoText, trText := emo.String(), tr.String()
	if emoText == "" {
		emoText = "No emotion data"
	}
	if trText == "" {
		trText = "No transcript data"
	}

	return "Analyze this meeting data and return ONLY valid JSON (no markdown, no code blocks):\n\n" +
		"Emotions:\n" + emoText + "\n\n" +
		"Transcript:\n" + trText + "\n\n" +
		"Return this exact JSON structure:\n" + summarySchema
}

func queryPrompt(m *models.Meeting, question string) string {
	duration := "unknown"
	if m.EndTime != nil {
		duration = fmt.Sprintf("%d minutes", int(math.Round(m.Duration().Minutes())))
	}

	emotions := tail(m.EmotionData, queryEmotions)
	recent := make([]string, len(emotions))
	for i, e := range emotions {
		recent[i] = fmt.Sprintf("%s:%s", e.ParticipantName, e.Emotion)
	}
	segments := tail(m.Transcripts, queryTranscript)
	lines := make([]string, len(segments))
	for i, t := range segments {
		lines[i] = fmt.Sprintf("%s: %s", t.ParticipantName, t.Text)
	}

	details := strings.Join([]string{
		"Meeting: " + m.Title,
		"Participants: " + strings.Join(m.ParticipantNames(), ", "),
		"Duration: " + duration,
		fmt.Sprintf("Emotions recorded: %d", len(m.EmotionData)),
		fmt.Sprintf("Transcript segments: %d", len(m.Transcripts)),
		"",
		"Recent emotions: " + strings.Join(recent, ", "),
		"",
		"Recent transcript: " + strings.Join(lines, "\n"),
	}, "\n")

	return "Based on this meeting data:\n" + details + "\n\nAnswer this question concisely: " + question
}
