// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package websocket

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodmeet/internal/classifier"
	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/metrics"
	"github.com/tomtom215/moodmeet/internal/models"
	"github.com/tomtom215/moodmeet/internal/speech"
)

// Incoming message types.
const (
	MessageTypePing              = "ping"
	MessageTypeEmotion           = "emotion"
	MessageTypeExpressions       = "expressions"
	MessageTypeFrame             = "frame"
	MessageTypeSpeech            = "speech"
	MessageTypeParticipantJoined = "participant.joined"
	MessageTypeParticipantLeft   = "participant.left"
	MessageTypeRemoteEmotion     = "remote.emotion"
)

var (
	// ErrUnknownType is returned for a message type the server does not take.
	ErrUnknownType = errors.New("websocket: unknown message type")

	// ErrBadPayload is returned when data does not decode for its type.
	ErrBadPayload = errors.New("websocket: malformed payload")

	// ErrNoClassifier is returned for frames when no classifier is configured.
	ErrNoClassifier = errors.New("websocket: frame classification is not configured")
)

// Inbound is a client to server message. Data is decoded by type.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Ingestor receives decoded producer events for a meeting.
type Ingestor interface {
	Emotion(ctx context.Context, code string, snap models.EmotionSnapshot) error
	Transcript(ctx context.Context, code string, seg models.TranscriptSegment) error
	Joined(ctx context.Context, code string, p models.Participant) error
	Left(ctx context.Context, code, participantID string, at time.Time) error
	RemoteEmotion(ctx context.Context, code, participantID string, e models.Emotion) error
}

type emotionPayload struct {
	ParticipantID   string    `json:"participantId"`
	ParticipantName string    `json:"participantName"`
	Timestamp       time.Time `json:"timestamp"`
	Emotion         string    `json:"emotion"`
	Confidence      float64   `json:"confidence"`
}

type expressionsPayload struct {
	ParticipantID   string             `json:"participantId"`
	ParticipantName string             `json:"participantName"`
	Timestamp       time.Time          `json:"timestamp"`
	Scores          map[string]float64 `json:"scores"`
}

type framePayload struct {
	ParticipantID   string    `json:"participantId"`
	ParticipantName string    `json:"participantName"`
	Timestamp       time.Time `json:"timestamp"`
	Image           string    `json:"image"`
}

type speechPayload struct {
	ParticipantID   string    `json:"participantId"`
	ParticipantName string    `json:"participantName"`
	Text            string    `json:"text"`
	IsFinal         bool      `json:"isFinal"`
	Timestamp       time.Time `json:"timestamp"`
}

type participantPayload struct {
	ParticipantID   string `json:"participantId"`
	ParticipantName string `json:"participantName"`
}

type remoteEmotionPayload struct {
	ParticipantID string `json:"participantId"`
	Emotion       string `json:"emotion"`
}

// Dispatcher decodes inbound messages and routes them to an Ingestor.
type Dispatcher struct {
	ingest     Ingestor
	classifier classifier.Classifier
	now        func() time.Time
}

// NewDispatcher routes to ing. cls may be nil, in which case frame
// messages are rejected.
func NewDispatcher(ing Ingestor, cls classifier.Classifier) *Dispatcher {
	return &Dispatcher{ingest: ing, classifier: cls, now: time.Now}
}

// WithClock replaces the clock used to stamp messages that carry no timestamp.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

func decode(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", ErrBadPayload)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return nil
}

func (d *Dispatcher) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return d.now().UTC()
	}
	return t
}

// Dispatch handles one inbound message for the room code. The returned
// message, if any, is sent back to the producer only.
func (d *Dispatcher) Dispatch(ctx context.Context, code string, in Inbound) (*Message, error) {
	metrics.WSMessagesReceived.WithLabelValues(metricType(in.Type)).Inc()

	switch in.Type {
	case MessageTypePing:
		return &Message{Type: MessageTypePong}, nil

	case MessageTypeEmotion:
		var p emotionPayload
		if err := decode(in.Data, &p); err != nil {
			return nil, err
		}
		e, err := models.ParseEmotion(p.Emotion)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
		return nil, d.ingest.Emotion(ctx, code, models.EmotionSnapshot{
			ParticipantID:   p.ParticipantID,
			ParticipantName: p.ParticipantName,
			Timestamp:       d.stamp(p.Timestamp),
			Emotion:         e,
			Confidence:      p.Confidence,
		})

	case MessageTypeExpressions:
		var p expressionsPayload
		if err := decode(in.Data, &p); err != nil {
			return nil, err
		}
		scores := classifier.ParseScores(p.Scores)
		if len(scores) == 0 {
			return nil, fmt.Errorf("%w: no known expression scores", ErrBadPayload)
		}
		return nil, d.ingest.Emotion(ctx, code, scores.Snapshot(p.ParticipantID, p.ParticipantName, d.stamp(p.Timestamp)))

	case MessageTypeFrame:
		return nil, d.frame(ctx, code, in.Data)

	case MessageTypeSpeech:
		var p speechPayload
		if err := decode(in.Data, &p); err != nil {
			return nil, err
		}
		seg, ok := speech.Segment(
			speech.Result{Text: p.Text, IsFinal: p.IsFinal, Timestamp: p.Timestamp},
			speech.Speaker{ID: p.ParticipantID, Name: p.ParticipantName},
			func() time.Time { return d.now().UTC() },
		)
		if !ok {
			return nil, nil
		}
		return nil, d.ingest.Transcript(ctx, code, seg)

	case MessageTypeParticipantJoined:
		var p participantPayload
		if err := decode(in.Data, &p); err != nil {
			return nil, err
		}
		if p.ParticipantID == "" {
			return nil, fmt.Errorf("%w: participantId required", ErrBadPayload)
		}
		return nil, d.ingest.Joined(ctx, code, models.Participant{ID: p.ParticipantID, Name: p.ParticipantName, JoinedAt: d.now().UTC()})

	case MessageTypeParticipantLeft:
		var p participantPayload
		if err := decode(in.Data, &p); err != nil {
			return nil, err
		}
		return nil, d.ingest.Left(ctx, code, p.ParticipantID, d.now().UTC())

	case MessageTypeRemoteEmotion:
		var p remoteEmotionPayload
		if err := decode(in.Data, &p); err != nil {
			return nil, err
		}
		e, err := models.ParseEmotion(p.Emotion)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
		return nil, d.ingest.RemoteEmotion(ctx, code, p.ParticipantID, e)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, in.Type)
}

func (d *Dispatcher) frame(ctx context.Context, code string, data json.RawMessage) error {
	if d.classifier == nil {
		return ErrNoClassifier
	}
	var p framePayload
	if err := decode(data, &p); err != nil {
		return err
	}
	img := p.Image
	if i := strings.Index(img, ";base64,"); i >= 0 {
		img = img[i+len(";base64,"):]
	}
	frame, err := base64.StdEncoding.DecodeString(img)
	if err != nil || len(frame) == 0 {
		return fmt.Errorf("%w: image must be base64", ErrBadPayload)
	}

	scores, err := d.classifier.Detect(ctx, frame)
	if errors.Is(err, classifier.ErrNoFace) {
		logging.Ctx(ctx).Debug().Str("code", code).Str("participant_id", p.ParticipantID).Msg("No face in frame")
		return nil
	}
	if err != nil {
		return err
	}
	return d.ingest.Emotion(ctx, code, scores.Snapshot(p.ParticipantID, p.ParticipantName, d.stamp(p.Timestamp)))
}

// metricType keeps label cardinality bounded against arbitrary client input.
func metricType(t string) string {
	switch t {
	case MessageTypePing, MessageTypeEmotion, MessageTypeExpressions, MessageTypeFrame,
		MessageTypeSpeech, MessageTypeParticipantJoined, MessageTypeParticipantLeft, MessageTypeRemoteEmotion:
		return t
	}
	return "unknown"
}
