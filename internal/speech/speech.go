// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

// Package speech adapts speech-recognition results into transcript
// segments. Interim results are discarded; only finalized text enters the
// transcript log.
package speech

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/moodmeet/internal/models"
)

// Result is one recognition result. Recognizers emit many interim results
// for an utterance followed by one final result.
type Result struct {
	Text      string    `json:"text"`
	IsFinal   bool      `json:"isFinal"`
	Timestamp time.Time `json:"timestamp"`
}

// Speaker identifies who produced a result stream.
type Speaker struct {
	ID   string
	Name string
}

// Segment converts a final, non-blank result. The second return is false
// for interim or blank results. A zero timestamp is replaced with now.
func Segment(r Result, who Speaker, now func() time.Time) (models.TranscriptSegment, bool) {
	text := strings.TrimSpace(r.Text)
	if !r.IsFinal || text == "" {
		return models.TranscriptSegment{}, false
	}
	at := r.Timestamp
	if at.IsZero() {
		at = now()
	}
	return models.TranscriptSegment{
		ParticipantID:   who.ID,
		ParticipantName: who.Name,
		Text:            text,
		Timestamp:       at,
	}, true
}

// Finals forwards the segments of final results from in until in is
// closed or ctx is done. The returned channel is closed on exit.
func Finals(ctx context.Context, in <-chan Result, who Speaker) <-chan models.TranscriptSegment {
	out := make(chan models.TranscriptSegment)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case r, ok := <-in:
				if !ok {
					return
				}
				seg, ok := Segment(r, who, time.Now)
				if !ok {
					continue
				}
				select {
				case out <- seg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
