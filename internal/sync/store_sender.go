// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package sync

import (
	"context"

	"github.com/tomtom215/moodmeet/internal/models"
)

// Appender is the slice of the durable store the senders need.
// *store.Store implements it.
type Appender interface {
	AppendEmotions(ctx context.Context, code string, items []models.EmotionSnapshot) error
	AppendTranscript(ctx context.Context, code string, items []models.TranscriptSegment) error
}

// EmotionSender appends emotion batches for one meeting.
func EmotionSender(a Appender, code string) Sender[models.EmotionSnapshot] {
	return SenderFunc[models.EmotionSnapshot](func(ctx context.Context, items []models.EmotionSnapshot) error {
		return a.AppendEmotions(ctx, code, items)
	})
}

// TranscriptSender appends transcript batches for one meeting.
func TranscriptSender(a Appender, code string) Sender[models.TranscriptSegment] {
	return SenderFunc[models.TranscriptSegment](func(ctx context.Context, items []models.TranscriptSegment) error {
		return a.AppendTranscript(ctx, code, items)
	})
}
