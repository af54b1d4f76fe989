// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/moodmeet/internal/engagement"
	"github.com/tomtom215/moodmeet/internal/events"
	"github.com/tomtom215/moodmeet/internal/llm"
	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/models"
	"github.com/tomtom215/moodmeet/internal/store"
)

type coachingRequest struct {
	Code       string                     `json:"code" validate:"omitempty,meetingcode"`
	Emotions   []models.EmotionSnapshot   `json:"emotions" validate:"max=1000"`
	Transcript []models.TranscriptSegment `json:"transcript" validate:"max=1000"`
}

type summaryRequest struct {
	Code string `json:"code" validate:"required,meetingcode"`
}

type queryRequest struct {
	Code     string `json:"code" validate:"required,meetingcode"`
	Question string `json:"question" validate:"notblank,max=2000"`
}

type tipResponse struct {
	Tip string `json:"tip"`
}

type summaryResponse struct {
	Summary *models.AISummary `json:"summary"`
	Message string            `json:"message,omitempty"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

// Coaching returns one tip. With a code it reads the meeting's recent
// logs; otherwise it uses the emotions and transcript in the body.
func (h *Handler) Coaching(w http.ResponseWriter, r *http.Request) {
	var req coachingRequest
	if !decodeOrReject(w, r, &req, false) || !validateOrReject(w, r, &req) {
		return
	}

	emotions, transcript := req.Emotions, req.Transcript
	if req.Code != "" {
		var err error
		emotions, transcript, err = h.recentLogs(r.Context(), req.Code)
		if err != nil {
			respondStoreError(w, r, err)
			return
		}
	}

	tip, err := h.llm.CoachingTip(r.Context(), emotions, transcript)
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeAIUnavailable, "AI coaching is unavailable, try again later", err)
		return
	}
	respondData(w, r, http.StatusOK, tipResponse{Tip: tip})
}

// recentLogs returns the coaching tails of code from its live session or,
// for a meeting without one, the persisted record.
func (h *Handler) recentLogs(ctx context.Context, code string) ([]models.EmotionSnapshot, []models.TranscriptSegment, error) {
	if sess, ok := h.sessions.Get(code); ok {
		return sess.Tail(ctx, engagement.CoachEmotionTail, engagement.CoachTranscriptTail)
	}
	m, err := h.store.Get(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	return m.EmotionData, m.Transcripts, nil
}

// Summary generates and stores the AI summary of a meeting.
//
// Without an API key it answers 200 with a null summary and a message.
// After an upstream failure the neutral placeholder is returned and not
// stored.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if !decodeOrReject(w, r, &req, false) || !validateOrReject(w, r, &req) {
		return
	}
	ctx := r.Context()

	if err := h.sessions.Flush(ctx, req.Code); err != nil {
		logging.Meeting(ctx, req.Code).Warn().Err(err).Msg("Flush before summary failed")
	}

	summary, err := h.summaries.Generate(ctx, req.Code)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		respondData(w, r, http.StatusOK, summaryResponse{Message: llm.SummaryNotConfigured})
		return
	case errors.Is(err, store.ErrNotFound):
		respondStoreError(w, r, err)
		return
	case errors.Is(err, llm.ErrUnavailable) && summary != nil:
		respondData(w, r, http.StatusOK, summaryResponse{Summary: summary})
		return
	case err != nil:
		respondStoreError(w, r, err)
		return
	}

	ev := events.NewEvent(events.TopicSummaryGenerated, req.Code)
	ev.Summary = summary
	h.publish(ctx, events.TopicSummaryGenerated, ev)
	respondData(w, r, http.StatusOK, summaryResponse{Summary: summary})
}

// Query answers a free-form question about a meeting.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !decodeOrReject(w, r, &req, false) || !validateOrReject(w, r, &req) {
		return
	}
	m, err := h.meeting(r.Context(), req.Code)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	// Answer returns a placeholder together with any upstream error.
	answer, _ := h.llm.Answer(r.Context(), m, strings.TrimSpace(req.Question))
	respondData(w, r, http.StatusOK, answerResponse{Answer: answer})
}
