// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package events

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/models"
)

// MessageTypeMeetingEvent is the websocket message type lifecycle events are
// relayed under.
const MessageTypeMeetingEvent = "meeting.event"

// Broadcaster delivers a message to every client in a meeting room.
type Broadcaster interface {
	BroadcastToRoom(code, msgType string, data interface{})
}

// Summarizer generates and stores the AI summary of an ended meeting.
type Summarizer interface {
	Generate(ctx context.Context, code string) (*models.AISummary, error)
}

// ErrSkip tells the summary handler the summary will never be generated, so
// retrying is pointless.
var ErrSkip = errors.New("events: skipped")

// RelayHandler forwards every event to the meeting's websocket room.
func RelayHandler(b Broadcaster) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		ev, err := Decode(msg)
		if err != nil {
			// Malformed payloads never get better.
			logging.Warn().Err(err).Str("component", "events").Msg("Dropping undecodable event")
			return nil
		}
		if ev.Code == "" {
			return nil
		}
		b.BroadcastToRoom(ev.Code, MessageTypeMeetingEvent, ev)
		return nil
	}
}

// SummaryHandler generates the summary when a meeting ends and announces it
// on summary.generated. Summarizer errors wrapping ErrSkip are logged once
// and not retried.
func SummaryHandler(s Summarizer, bus *Bus) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		ev, err := Decode(msg)
		if err != nil {
			logging.Warn().Err(err).Str("component", "events").Msg("Dropping undecodable event")
			return nil
		}

		ctx := logging.ContextWithNewCorrelationID(msg.Context())
		log := logging.Ctx(ctx).With().Str("component", "events").Str("code", ev.Code).Logger()

		summary, err := s.Generate(ctx, ev.Code)
		if errors.Is(err, ErrSkip) {
			log.Debug().Err(err).Msg("Automatic summary skipped")
			return nil
		}
		if err != nil {
			return err
		}

		out := NewEvent(TopicSummaryGenerated, ev.Code)
		out.Title = ev.Title
		out.Status = models.StatusEnded
		out.Summary = summary
		if err := bus.Publish(ctx, TopicSummaryGenerated, out); err != nil {
			return err
		}
		log.Info().Msg("Meeting summary generated")
		return nil
	}
}

// Register wires the standard handlers: relay on every topic, and the
// automatic summary when s is non-nil.
func Register(r *Router, bus *Bus, b Broadcaster, s Summarizer) {
	if b != nil {
		for _, topic := range Topics {
			r.Handle("relay-"+topic, topic, RelayHandler(b))
		}
	}
	if s != nil {
		r.Handle("auto-summary", TopicMeetingEnded, SummaryHandler(s, bus))
	}
}
