// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

// Package events carries meeting lifecycle events over a Watermill bus.
//
// The default build uses Watermill's in-process GoChannel pub/sub. Building
// with -tags=nats adds a NATS JetStream bus (optionally with an embedded
// server) so several server processes can share events.
package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/moodmeet/internal/models"
)

// Topics.
const (
	TopicMeetingCreated   = "meeting.created"
	TopicMeetingJoined    = "meeting.joined"
	TopicMeetingEnded     = "meeting.ended"
	TopicSummaryGenerated = "summary.generated"
)

// Topics lists every topic, for stream provisioning and broadcast handlers.
var Topics = []string{TopicMeetingCreated, TopicMeetingJoined, TopicMeetingEnded, TopicSummaryGenerated}

// Event is the payload of every lifecycle message.
type Event struct {
	ID              string               `json:"id"`
	Topic           string               `json:"topic"`
	Code            string               `json:"code"`
	Title           string               `json:"title,omitempty"`
	Status          models.MeetingStatus `json:"status,omitempty"`
	ParticipantID   string               `json:"participantId,omitempty"`
	ParticipantName string               `json:"participantName,omitempty"`
	Summary         *models.AISummary    `json:"summary,omitempty"`
	At              time.Time            `json:"at"`
}

// NewEvent creates an event for code with a fresh ID.
func NewEvent(topic, code string) *Event {
	return &Event{
		ID:    watermill.NewUUID(),
		Topic: topic,
		Code:  code,
		At:    time.Now().UTC(),
	}
}

// MeetingEvent builds an event from a meeting record.
func MeetingEvent(topic string, m *models.Meeting) *Event {
	ev := NewEvent(topic, m.Code)
	ev.Title = m.Title
	ev.Status = m.Status
	return ev
}

func encode(ev *Event) (*message.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("serialize event: %w", err)
	}
	msg := message.NewMessage(ev.ID, data)
	msg.Metadata.Set("code", ev.Code)
	msg.Metadata.Set("topic", ev.Topic)
	return msg, nil
}

// Decode reads the event carried by msg.
func Decode(msg *message.Message) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return nil, fmt.Errorf("deserialize event %s: %w", msg.UUID, err)
	}
	return &ev, nil
}
