// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

// Package summary generates and stores post-meeting AI summaries. It is
// shared by the /ai/summary endpoint and the automatic meeting.ended handler.
package summary

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/moodmeet/internal/events"
	"github.com/tomtom215/moodmeet/internal/llm"
	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/models"
	"github.com/tomtom215/moodmeet/internal/store"
)

// Store is the part of the meeting store a summary touches.
type Store interface {
	Get(ctx context.Context, code string) (*models.Meeting, error)
	SetSummary(ctx context.Context, code string, summary *models.AISummary) (*models.Meeting, error)
}

// Service reads the persisted meeting, generates, and stores the result.
type Service struct {
	store Store
	llm   *llm.Service
}

// NewService creates a summary service.
func NewService(st Store, l *llm.Service) *Service {
	return &Service{store: st, llm: l}
}

// Generate summarizes the persisted meeting code and stores the summary.
//
// Errors that retrying cannot fix (no API key, unknown meeting) also wrap
// events.ErrSkip. After an upstream failure the placeholder summary is
// returned with the error and nothing is stored.
func (s *Service) Generate(ctx context.Context, code string) (*models.AISummary, error) {
	m, err := s.store.Get(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("summary %s: %w: %w", code, events.ErrSkip, err)
	}
	if err != nil {
		return nil, fmt.Errorf("summary %s: %w", code, err)
	}

	summary, err := s.llm.Summarize(ctx, m)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return nil, fmt.Errorf("summary %s: %w: %w", code, events.ErrSkip, err)
	case err != nil:
		return summary, fmt.Errorf("summary %s: %w", code, err)
	}

	if _, err := s.store.SetSummary(ctx, code, summary); err != nil {
		return nil, fmt.Errorf("store summary %s: %w", code, err)
	}
	logging.Ctx(ctx).Debug().
		Str("code", code).
		Int("emotions", len(m.EmotionData)).
		Int("segments", len(m.Transcripts)).
		Str("sentiment", summary.OverallSentiment).
		Msg("Summary stored")
	return summary, nil
}
