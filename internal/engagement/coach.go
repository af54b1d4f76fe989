// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package engagement

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/metrics"
	"github.com/tomtom215/moodmeet/internal/models"
)

const (
	// MaxTips is how many tips a meeting keeps on display.
	MaxTips = 5

	// CoachEmotionTail and CoachTranscriptTail bound the context sent to the
	// generator on each tick.
	CoachEmotionTail    = 10
	CoachTranscriptTail = 5
)

// Advisor produces one short suggestion from recent telemetry.
// llm.Service implements it.
type Advisor interface {
	CoachingTip(ctx context.Context, emotions []models.EmotionSnapshot, transcript []models.TranscriptSegment) (string, error)
}

// Coach keeps the bounded tip list for one meeting.
type Coach struct {
	advisor Advisor
	now     func() time.Time

	mu   sync.Mutex
	tips []models.CoachingTip
}

// NewCoach creates a coach backed by advisor.
func NewCoach(advisor Advisor) *Coach {
	return &Coach{advisor: advisor, now: time.Now}
}

// Tick asks for a tip when both logs have content. It returns the appended
// tip and true, or false when nothing was appended. Failures never surface:
// coaching is advisory.
func (c *Coach) Tick(ctx context.Context, emotions []models.EmotionSnapshot, transcript []models.TranscriptSegment) (models.CoachingTip, bool) {
	if len(emotions) == 0 || len(transcript) == 0 {
		metrics.CoachingOutcomes.WithLabelValues("skipped").Inc()
		return models.CoachingTip{}, false
	}

	text, err := c.advisor.CoachingTip(ctx, tail(emotions, CoachEmotionTail), tail(transcript, CoachTranscriptTail))
	if err != nil {
		metrics.CoachingOutcomes.WithLabelValues("error").Inc()
		logging.Debug().Err(err).Msg("Coaching tip unavailable")
		return models.CoachingTip{}, false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		metrics.CoachingOutcomes.WithLabelValues("empty").Inc()
		return models.CoachingTip{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// The same advice twice in a row adds nothing to the panel.
	if n := len(c.tips); n > 0 && c.tips[n-1].Text == text {
		metrics.CoachingOutcomes.WithLabelValues("repeat").Inc()
		return models.CoachingTip{}, false
	}
	tip := models.CoachingTip{Text: text, At: c.now()}
	c.tips = append(c.tips, tip)
	if len(c.tips) > MaxTips {
		c.tips = append([]models.CoachingTip(nil), c.tips[len(c.tips)-MaxTips:]...)
	}
	metrics.CoachingOutcomes.WithLabelValues("tip").Inc()
	return tip, true
}

// Tips returns a copy of the current list, oldest first.
func (c *Coach) Tips() []models.CoachingTip {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CoachingTip, len(c.tips))
	copy(out, c.tips)
	return out
}

func tail[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
