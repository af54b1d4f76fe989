// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package api

import (
	"context"
	"time"

	"github.com/tomtom215/moodmeet/internal/models"
)

// liveIngestor feeds websocket producer events into the live session of
// a meeting. Roster changes also reach the store at once.
type liveIngestor struct {
	h *Handler
}

func (li *liveIngestor) Emotion(ctx context.Context, code string, snap models.EmotionSnapshot) error {
	sess, err := li.h.session(ctx, code)
	if err != nil {
		return err
	}
	if err := sess.AppendEmotion(ctx, snap); err != nil {
		return err
	}
	return sess.SetLocalEmotion(ctx, snap.Emotion)
}

func (li *liveIngestor) Transcript(ctx context.Context, code string, seg models.TranscriptSegment) error {
	sess, err := li.h.session(ctx, code)
	if err != nil {
		return err
	}
	return sess.AppendTranscript(ctx, seg)
}

func (li *liveIngestor) Joined(ctx context.Context, code string, p models.Participant) error {
	if p.JoinedAt.IsZero() {
		p.JoinedAt = li.h.now().UTC()
	}
	_, err := li.h.join(ctx, code, p)
	return err
}

func (li *liveIngestor) Left(ctx context.Context, code, participantID string, at time.Time) error {
	if _, err := li.h.store.Leave(ctx, code, participantID, at); err != nil {
		return err
	}
	if sess, ok := li.h.sessions.Get(code); ok {
		return sess.Leave(ctx, participantID, at)
	}
	return nil
}

func (li *liveIngestor) RemoteEmotion(ctx context.Context, code, participantID string, e models.Emotion) error {
	sess, err := li.h.session(ctx, code)
	if err != nil {
		return err
	}
	return sess.SetRemoteEmotion(ctx, participantID, e)
}
