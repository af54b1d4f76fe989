// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/moodmeet/internal/analytics"
	"github.com/tomtom215/moodmeet/internal/events"
	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/models"
	"github.com/tomtom215/moodmeet/internal/session"
	"github.com/tomtom215/moodmeet/internal/store"
)

// Meeting defaults and history paging.
const (
	DefaultTitle     = "Untitled Meeting"
	DefaultHostName  = "Host"
	HistoryPageSize  = 12
	MaxHistoryLimit  = 100
	createCodeTrials = 5
)

type createMeetingRequest struct {
	Title    string `json:"title" validate:"max=200"`
	HostName string `json:"hostName" validate:"max=128"`
}

type joinRequest struct {
	Name          string `json:"name" validate:"notblank,max=128"`
	ParticipantID string `json:"participantId" validate:"max=128"`
}

// appendResult reports a batch append.
type appendResult struct {
	Added    int `json:"added"`
	Rejected int `json:"rejected"`
}

// CreateMeeting stores a new waiting meeting and opens its live session.
func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req createMeetingRequest
	if !decodeOrReject(w, r, &req, true) || !validateOrReject(w, r, &req) {
		return
	}

	now := h.now().UTC()
	m := &models.Meeting{
		Title:        strings.TrimSpace(req.Title),
		HostName:     strings.TrimSpace(req.HostName),
		Participants: []models.Participant{},
		EmotionData:  []models.EmotionSnapshot{},
		Transcripts:  []models.TranscriptSegment{},
		Status:       models.StatusWaiting,
		StartTime:    now,
		CreatedAt:    now,
	}
	if m.Title == "" {
		m.Title = DefaultTitle
	}
	if m.HostName == "" {
		m.HostName = DefaultHostName
	}

	if err := h.createWithFreshCode(r.Context(), m); err != nil {
		respondStoreError(w, r, err)
		return
	}
	h.sessions.Open(m)
	h.publish(r.Context(), events.TopicMeetingCreated, events.MeetingEvent(events.TopicMeetingCreated, m))

	logging.Ctx(r.Context()).Info().Str("code", m.Code).Msg("Meeting created")
	respondData(w, r, http.StatusCreated, m)
}

func (h *Handler) createWithFreshCode(ctx context.Context, m *models.Meeting) error {
	var err error
	for i := 0; i < createCodeTrials; i++ {
		if m.Code, err = models.GenerateCode(); err != nil {
			return err
		}
		err = h.store.Create(ctx, m)
		if !errors.Is(err, store.ErrExists) {
			return err
		}
	}
	return fmt.Errorf("no free meeting code after %d attempts: %w", createCodeTrials, err)
}

// GetMeeting returns the persisted meeting including live items not yet
// synced.
func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	code, ok := codeParam(w, r)
	if !ok {
		return
	}
	m, err := h.meeting(r.Context(), code)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, m)
}

// JoinMeeting adds a participant and marks the meeting active.
func (h *Handler) JoinMeeting(w http.ResponseWriter, r *http.Request) {
	code, ok := codeParam(w, r)
	if !ok {
		return
	}
	var req joinRequest
	if !decodeOrReject(w, r, &req, false) || !validateOrReject(w, r, &req) {
		return
	}

	p := models.Participant{
		ID:       strings.TrimSpace(req.ParticipantID),
		Name:     strings.TrimSpace(req.Name),
		JoinedAt: h.now().UTC(),
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	m, err := h.join(r.Context(), code, p)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, m)
}

// join records p in the store and the live session and announces it.
// It is shared by the join route and websocket roster messages.
func (h *Handler) join(ctx context.Context, code string, p models.Participant) (*models.Meeting, error) {
	m, err := h.store.Join(ctx, code, p)
	if err != nil {
		return nil, err
	}
	if m.Status != models.StatusEnded {
		sess, err := h.session(ctx, code)
		if err == nil {
			if err = sess.Join(ctx, p); err == nil {
				err = sess.SetStatus(ctx, models.StatusActive)
			}
		}
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("code", code).Msg("Live roster update failed")
		}
	}

	ev := events.MeetingEvent(events.TopicMeetingJoined, m)
	ev.ParticipantID, ev.ParticipantName = p.ID, p.Name
	h.publish(ctx, events.TopicMeetingJoined, ev)
	return m, nil
}

// EndMeeting runs the final flush, writes the end marker and announces the
// end. Ending an ended meeting returns it unchanged.
func (h *Handler) EndMeeting(w http.ResponseWriter, r *http.Request) {
	code, ok := codeParam(w, r)
	if !ok {
		return
	}
	m, err := h.sessions.End(r.Context(), code)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	h.publish(r.Context(), events.TopicMeetingEnded, events.MeetingEvent(events.TopicMeetingEnded, m))
	respondData(w, r, http.StatusOK, m)
}

// AppendEmotions accepts {"snapshots": [...]}. Invalid items are skipped
// and counted as rejected.
func (h *Handler) AppendEmotions(w http.ResponseWriter, r *http.Request) {
	code, ok := codeParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Snapshots json.RawMessage `json:"snapshots"`
	}
	if !decodeOrReject(w, r, &body, true) {
		return
	}
	raw, ok := batchItems(w, r, body.Snapshots, "snapshots array required")
	if !ok {
		return
	}
	snaps, rejected := decodeEach[models.EmotionSnapshot](raw)

	res, err := h.appendEmotions(r.Context(), code, snaps)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	res.Rejected += rejected
	respondData(w, r, http.StatusOK, res)
}

// AppendTranscript accepts {"segments": [...]}.
func (h *Handler) AppendTranscript(w http.ResponseWriter, r *http.Request) {
	code, ok := codeParam(w, r)
	if !ok {
		return
	}
	var body struct {
		Segments json.RawMessage `json:"segments"`
	}
	if !decodeOrReject(w, r, &body, true) {
		return
	}
	raw, ok := batchItems(w, r, body.Segments, "segments array required")
	if !ok {
		return
	}
	segs, rejected := decodeEach[models.TranscriptSegment](raw)

	res, err := h.appendTranscript(r.Context(), code, segs)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	res.Rejected += rejected
	respondData(w, r, http.StatusOK, res)
}

// batchItems splits a JSON array into its items. Anything but an array is
// rejected with msg.
func batchItems(w http.ResponseWriter, r *http.Request, field json.RawMessage, msg string) ([]json.RawMessage, bool) {
	var items []json.RawMessage
	trimmed := strings.TrimSpace(string(field))
	if !strings.HasPrefix(trimmed, "[") || json.Unmarshal(field, &items) != nil {
		respondError(w, r, http.StatusBadRequest, CodeBadRequest, msg, nil)
		return nil, false
	}
	return items, true
}

// decodeEach decodes every item it can; malformed items count as rejected.
func decodeEach[T any](raw []json.RawMessage) ([]T, int) {
	out := make([]T, 0, len(raw))
	rejected := 0
	for _, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			rejected++
			continue
		}
		out = append(out, v)
	}
	return out, rejected
}

// endedWindow is the timestamp window of a meeting with no live session.
func (h *Handler) endedWindow(ctx context.Context, code string) (analytics.TimeWindow, error) {
	m, err := h.store.Get(ctx, code)
	if err != nil {
		return analytics.TimeWindow{}, err
	}
	return analytics.MeetingWindow(m), nil
}

// appendEmotions routes a batch to the live session, or straight to the
// store for a meeting that already ended.
func (h *Handler) appendEmotions(ctx context.Context, code string, snaps []models.EmotionSnapshot) (appendResult, error) {
	sess, err := h.session(ctx, code)
	switch {
	case err == nil:
		added, rejected, err := sess.AppendEmotions(ctx, snaps)
		return appendResult{Added: added, Rejected: rejected}, err
	case errors.Is(err, session.ErrNoSession):
		w, err := h.endedWindow(ctx, code)
		if err != nil {
			return appendResult{}, err
		}
		valid := make([]models.EmotionSnapshot, 0, len(snaps))
		for i := range snaps {
			if analytics.ValidSnapshot(&snaps[i]) && w.Contains(snaps[i].Timestamp) {
				valid = append(valid, snaps[i])
			}
		}
		if err := h.store.AppendEmotions(ctx, code, valid); err != nil {
			return appendResult{}, err
		}
		return appendResult{Added: len(valid), Rejected: len(snaps) - len(valid)}, nil
	default:
		return appendResult{}, err
	}
}

func (h *Handler) appendTranscript(ctx context.Context, code string, segs []models.TranscriptSegment) (appendResult, error) {
	sess, err := h.session(ctx, code)
	switch {
	case err == nil:
		added, rejected, err := sess.AppendTranscripts(ctx, segs)
		return appendResult{Added: added, Rejected: rejected}, err
	case errors.Is(err, session.ErrNoSession):
		w, err := h.endedWindow(ctx, code)
		if err != nil {
			return appendResult{}, err
		}
		valid := make([]models.TranscriptSegment, 0, len(segs))
		for i := range segs {
			if analytics.ValidSegment(&segs[i]) && w.Contains(segs[i].Timestamp) {
				valid = append(valid, segs[i])
			}
		}
		if err := h.store.AppendTranscript(ctx, code, valid); err != nil {
			return appendResult{}, err
		}
		return appendResult{Added: len(valid), Rejected: len(segs) - len(valid)}, nil
	default:
		return appendResult{}, err
	}
}

// History lists ended meetings, newest end first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	page := getIntParam(r, "page", 1, 1<<20)
	limit := getIntParam(r, "limit", HistoryPageSize, MaxHistoryLimit)

	items, total, err := h.store.List(r.Context(), store.History, page, limit)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, models.HistoryPage{
		Meetings: items,
		Total:    total,
		Page:     page,
		Pages:    (total + limit - 1) / limit,
	})
}
