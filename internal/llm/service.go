// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/metrics"
	"github.com/tomtom215/moodmeet/internal/models"
)

// Messages returned when no API key is configured.
const (
	CoachingNotConfigured = "Configure GEMINI_API_KEY for AI coaching."
	SummaryNotConfigured  = "Configure GEMINI_API_KEY for AI summaries."
	QueryNotConfigured    = "Configure GEMINI_API_KEY for AI Q&A."

	// AnswerUnavailable is the placeholder answer after an upstream failure.
	AnswerUnavailable = "The assistant is unavailable right now. Try again in a moment."
)

// Context tails, in items, for each operation.
const (
	coachEmotions     = 10
	coachTranscript   = 5
	summaryEmotions   = 100
	summaryTranscript = 100
	queryEmotions     = 30
	queryTranscript   = 20
)

// Service builds prompts and interprets responses.
type Service struct {
	gen Generator
	now func() time.Time
}

// NewService wraps gen. A nil gen behaves like Placeholder.
func NewService(gen Generator) *Service {
	if gen == nil {
		gen = Placeholder{}
	}
	return &Service{gen: gen, now: time.Now}
}

// Configured reports whether a real generator is behind the service.
func (s *Service) Configured() bool {
	_, placeholder := s.gen.(Placeholder)
	return !placeholder
}

func (s *Service) generate(ctx context.Context, op, prompt string) (string, error) {
	start := time.Now()
	text, err := s.gen.Generate(ctx, prompt)
	if errors.Is(err, ErrNotConfigured) {
		return "", err
	}
	metrics.RecordLLMRequest(op, time.Since(start), err)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		logging.Ctx(ctx).Warn().Err(err).Str("operation", op).Msg("Text generation failed")
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// CoachingTip asks for one short tip from the tail of both logs. It returns
// ("", err) when the generator fails; callers append nothing in that case.
func (s *Service) CoachingTip(ctx context.Context, emotions []models.EmotionSnapshot, transcript []models.TranscriptSegment) (string, error) {
	tip, err := s.generate(ctx, "coaching", coachingPrompt(tail(emotions, coachEmotions), tail(transcript, coachTranscript)))
	if errors.Is(err, ErrNotConfigured) {
		return CoachingNotConfigured, nil
	}
	return tip, err
}

// Summarize produces the post-meeting report. Without an API key it
// returns ErrNotConfigured and no summary. On an upstream failure it
// returns Unavailable() together with the ErrUnavailable error; the
// placeholder is not meant to be stored.
func (s *Service) Summarize(ctx context.Context, m *models.Meeting) (*models.AISummary, error) {
	prompt := summaryPrompt(tail(m.EmotionData, summaryEmotions), tail(m.Transcripts, summaryTranscript))
	text, err := s.generate(ctx, "summary", prompt)
	if errors.Is(err, ErrNotConfigured) {
		return nil, err
	}
	if err != nil {
		return Unavailable(s.now()), err
	}
	summary := ParseSummary(text)
	summary.GeneratedAt = s.now()
	return summary, nil
}

// Answer responds to a free-form question about the meeting.
func (s *Service) Answer(ctx context.Context, m *models.Meeting, question string) (string, error) {
	answer, err := s.generate(ctx, "query", queryPrompt(m, question))
	switch {
	case errors.Is(err, ErrNotConfigured):
		return QueryNotConfigured, nil
	case err != nil:
		return AnswerUnavailable, err
	}
	return answer, nil
}

// Unavailable is the neutral summary shown when generation failed.
func Unavailable(at time.Time) *models.AISummary {
	return &models.AISummary{
		KeyMoments:       []string{},
		EmotionalArc:     "Summary unavailable.",
		ActionItems:      []string{},
		PresenterTips:    []string{},
		OverallSentiment: "unknown",
		GeneratedAt:      at,
	}
}

func tail[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}
