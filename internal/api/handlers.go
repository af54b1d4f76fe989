// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/moodmeet/internal/classifier"
	"github.com/tomtom215/moodmeet/internal/events"
	"github.com/tomtom215/moodmeet/internal/llm"
	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/models"
	"github.com/tomtom215/moodmeet/internal/session"
	"github.com/tomtom215/moodmeet/internal/store"
	"github.com/tomtom215/moodmeet/internal/summary"
	ws "github.com/tomtom215/moodmeet/internal/websocket"
)

// Deps are the components the handlers use. Bus and Classifier may be nil.
type Deps struct {
	Store      *store.Store
	Sessions   *session.Manager
	LLM        *llm.Service
	Summaries  *summary.Service
	Bus        *events.Bus
	Hub        *ws.Hub
	Classifier classifier.Classifier

	// AllowedOrigins gates websocket upgrades; "*" allows any origin.
	AllowedOrigins []string
}

// Handler serves every MoodMeet route.
type Handler struct {
	store      *store.Store
	sessions   *session.Manager
	llm        *llm.Service
	summaries  *summary.Service
	bus        *events.Bus
	hub        *ws.Hub
	classifier classifier.Classifier
	origins    map[string]bool
	dispatcher *ws.Dispatcher
	startTime  time.Time
	now        func() time.Time
}

// NewHandler wires the handlers to d.
func NewHandler(d Deps) *Handler {
	h := &Handler{
		store:      d.Store,
		sessions:   d.Sessions,
		llm:        d.LLM,
		summaries:  d.Summaries,
		bus:        d.Bus,
		hub:        d.Hub,
		classifier: d.Classifier,
		origins:    make(map[string]bool, len(d.AllowedOrigins)),
		startTime:  time.Now(),
		now:        time.Now,
	}
	if h.llm == nil {
		h.llm = llm.NewService(nil)
	}
	if h.summaries == nil {
		h.summaries = summary.NewService(d.Store, h.llm)
	}
	for _, o := range d.AllowedOrigins {
		h.origins[o] = true
	}
	h.dispatcher = ws.NewDispatcher(&liveIngestor{h: h}, d.Classifier).WithClock(func() time.Time { return h.now() })
	return h
}

// codeParam returns the {code} URL parameter, writing a 400 when it is not
// a meeting code. It reports whether the handler should continue.
func codeParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	code := chi.URLParam(r, "code")
	if !models.ValidCode(code) {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "code must be a meeting code like abc-def-ghi", nil)
		return "", false
	}
	return code, true
}

// session returns the live session of code, reattaching one when the
// meeting is persisted, not ended and has none (after a restart).
func (h *Handler) session(ctx context.Context, code string) (*session.Session, error) {
	if s, ok := h.sessions.Get(code); ok {
		return s, nil
	}
	m, err := h.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if m.Status == models.StatusEnded {
		return nil, session.ErrNoSession
	}
	logging.Meeting(ctx, code).Info().Msg("Reattaching live session")
	return h.sessions.Open(m), nil
}

// meeting flushes the live logs of code and reads the persisted record.
// If the flush fails the unsent items are merged in so the caller still
// sees every accepted item.
func (h *Handler) meeting(ctx context.Context, code string) (*models.Meeting, error) {
	flushErr := h.sessions.Flush(ctx, code)
	if flushErr != nil {
		logging.Meeting(ctx, code).Warn().Err(flushErr).Msg("Flush before read failed, merging pending items")
	}
	m, err := h.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if flushErr != nil {
		emotions, transcript := h.sessions.Pending(code)
		m.EmotionData = append(m.EmotionData, emotions...)
		m.Transcripts = append(m.Transcripts, transcript...)
	}
	return m, nil
}

func (h *Handler) publish(ctx context.Context, topic string, ev *events.Event) {
	h.bus.PublishBestEffort(ctx, topic, ev)
}
