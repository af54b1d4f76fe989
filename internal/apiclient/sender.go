// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package apiclient

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/models"
	intsync "github.com/tomtom215/moodmeet/internal/sync"
)

var (
	_ intsync.Sender[models.EmotionSnapshot]   = (*HTTPSender[models.EmotionSnapshot])(nil)
	_ intsync.Sender[models.TranscriptSegment] = (*HTTPSender[models.TranscriptSegment])(nil)
)

// HTTPSender posts the batches of one log of one meeting to the batch
// endpoints. Server-side rejections are logged; the batch still counts as
// delivered so a bad item cannot block the log.
type HTTPSender[T any] struct {
	code   string
	post   func(ctx context.Context, code string, items []T) (AppendResult, error)
	logger zerolog.Logger
}

// EmotionHTTPSender posts to /meetings/{code}/emotions.
func EmotionHTTPSender(c *Client, code string) *HTTPSender[models.EmotionSnapshot] {
	return &HTTPSender[models.EmotionSnapshot]{code: code, post: c.PostEmotions, logger: senderLogger("emotions", code)}
}

// TranscriptHTTPSender posts to /meetings/{code}/transcript.
func TranscriptHTTPSender(c *Client, code string) *HTTPSender[models.TranscriptSegment] {
	return &HTTPSender[models.TranscriptSegment]{code: code, post: c.PostTranscript, logger: senderLogger("transcript", code)}
}

func senderLogger(log, code string) zerolog.Logger {
	return logging.WithComponent("apiclient").With().Str("log", log).Str("code", code).Logger()
}

// Send implements sync.Sender.
func (s *HTTPSender[T]) Send(ctx context.Context, items []T) error {
	res, err := s.post(ctx, s.code, items)
	if err != nil {
		return err
	}
	if res.Rejected > 0 {
		s.logger.Warn().Int("added", res.Added).Int("rejected", res.Rejected).Msg("Server rejected items")
	}
	return nil
}
