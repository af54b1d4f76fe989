// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package websocket

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodmeet/internal/classifier"
	"github.com/tomtom215/moodmeet/internal/models"
)

type fakeIngestor struct {
	mu         sync.Mutex
	emotions   []models.EmotionSnapshot
	segments   []models.TranscriptSegment
	joined     []models.Participant
	left       []string
	remote     map[string]models.Emotion
	emotionErr error
}

func (f *fakeIngestor) Emotion(_ context.Context, _ string, s models.EmotionSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emotionErr != nil {
		return f.emotionErr
	}
	f.emotions = append(f.emotions, s)
	return nil
}

func (f *fakeIngestor) Transcript(_ context.Context, _ string, s models.TranscriptSegment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.segments = append(f.segments, s)
	return nil
}

func (f *fakeIngestor) Joined(_ context.Context, _ string, p models.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joined = append(f.joined, p)
	return nil
}

func (f *fakeIngestor) Left(_ context.Context, _, id string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.left = append(f.left, id)
	return nil
}

func (f *fakeIngestor) RemoteEmotion(_ context.Context, _, id string, e models.Emotion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.remote == nil {
		f.remote = map[string]models.Emotion{}
	}
	f.remote[id] = e
	return nil
}

type fakeClassifier struct {
	scores classifier.Scores
	err    error
	got    []byte
}

func (f *fakeClassifier) Detect(_ context.Context, frame []byte) (classifier.Scores, error) {
	f.got = frame
	return f.scores, f.err
}

func (f *fakeClassifier) State() classifier.State { return classifier.StateReady }

var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newTestDispatcher(cls classifier.Classifier) (*Dispatcher, *fakeIngestor) {
	ing := &fakeIngestor{}
	d := NewDispatcher(ing, cls).WithClock(func() time.Time { return fixedNow })
	return d, ing
}

func inbound(t *testing.T, typ string, data interface{}) Inbound {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return Inbound{Type: typ, Data: raw}
}

func TestDispatch_Emotion(t *testing.T) {
	d, ing := newTestDispatcher(nil)
	in := inbound(t, MessageTypeEmotion, map[string]interface{}{
		"participantId": "p1", "participantName": "Ana", "emotion": "Happy", "confidence": 0.8,
	})
	if _, err := d.Dispatch(context.Background(), "abc-def-ghi", in); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(ing.emotions) != 1 {
		t.Fatalf("ingested %d emotions", len(ing.emotions))
	}
	got := ing.emotions[0]
	if got.Emotion != models.EmotionHappy || got.Confidence != 0.8 || !got.Timestamp.Equal(fixedNow) {
		t.Errorf("snapshot %+v", got)
	}
}

func TestDispatch_ExpressionsKeepsArgMax(t *testing.T) {
	d, ing := newTestDispatcher(nil)
	in := inbound(t, MessageTypeExpressions, map[string]interface{}{
		"participantId": "p1",
		"timestamp":     "2026-03-02T10:00:05Z",
		"scores":        map[string]float64{"neutral": 0.2, "sad": 0.7, "happy": 0.1, "blinking": 0.99},
	})
	if _, err := d.Dispatch(context.Background(), "abc-def-ghi", in); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	got := ing.emotions[0]
	if got.Emotion != models.EmotionSad || got.Confidence != 0.7 {
		t.Errorf("snapshot %+v", got)
	}
	if !got.Timestamp.Equal(fixedNow.Add(5 * time.Second)) {
		t.Errorf("timestamp %v", got.Timestamp)
	}
}

func TestDispatch_Frame(t *testing.T) {
	cls := &fakeClassifier{scores: classifier.Scores{models.EmotionSurprised: 0.9}}
	d, ing := newTestDispatcher(cls)
	img := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	in := inbound(t, MessageTypeFrame, map[string]interface{}{"participantId": "p1", "image": img})

	if _, err := d.Dispatch(context.Background(), "abc-def-ghi", in); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if string(cls.got) != "jpeg-bytes" {
		t.Errorf("classifier got %q", cls.got)
	}
	if len(ing.emotions) != 1 || ing.emotions[0].Emotion != models.EmotionSurprised {
		t.Errorf("ingested %+v", ing.emotions)
	}
}

func TestDispatch_FrameErrors(t *testing.T) {
	frame := map[string]interface{}{"participantId": "p1", "image": base64.StdEncoding.EncodeToString([]byte("x"))}

	d, _ := newTestDispatcher(nil)
	if _, err := d.Dispatch(context.Background(), "c", inbound(t, MessageTypeFrame, frame)); !errors.Is(err, ErrNoClassifier) {
		t.Errorf("no classifier: err = %v", err)
	}

	d, ing := newTestDispatcher(&fakeClassifier{err: classifier.ErrNoFace})
	if _, err := d.Dispatch(context.Background(), "c", inbound(t, MessageTypeFrame, frame)); err != nil {
		t.Errorf("no face should be silent, got %v", err)
	}
	if len(ing.emotions) != 0 {
		t.Error("no face should ingest nothing")
	}

	d, _ = newTestDispatcher(&fakeClassifier{err: classifier.ErrNotReady})
	if _, err := d.Dispatch(context.Background(), "c", inbound(t, MessageTypeFrame, frame)); !errors.Is(err, classifier.ErrNotReady) {
		t.Errorf("not ready: err = %v", err)
	}

	bad := map[string]interface{}{"participantId": "p1", "image": "%%%"}
	if _, err := d.Dispatch(context.Background(), "c", inbound(t, MessageTypeFrame, bad)); !errors.Is(err, ErrBadPayload) {
		t.Errorf("bad base64: err = %v", err)
	}
}

func TestDispatch_SpeechKeepsFinalsOnly(t *testing.T) {
	d, ing := newTestDispatcher(nil)
	ctx := context.Background()
	for _, p := range []map[string]interface{}{
		{"participantId": "p1", "text": "hello wor", "isFinal": false},
		{"participantId": "p1", "text": "   ", "isFinal": true},
		{"participantId": "p1", "participantName": "Ana", "text": " hello world ", "isFinal": true},
	} {
		if _, err := d.Dispatch(ctx, "c", inbound(t, MessageTypeSpeech, p)); err != nil {
			t.Fatalf("Dispatch: %v", err)
		}
	}
	if len(ing.segments) != 1 || ing.segments[0].Text != "hello world" || ing.segments[0].ParticipantName != "Ana" {
		t.Errorf("segments %+v", ing.segments)
	}
}

func TestDispatch_Roster(t *testing.T) {
	d, ing := newTestDispatcher(nil)
	ctx := context.Background()

	if _, err := d.Dispatch(ctx, "c", inbound(t, MessageTypeParticipantJoined, map[string]string{"participantId": "p2", "participantName": "Bo"})); err != nil {
		t.Fatalf("joined: %v", err)
	}
	if _, err := d.Dispatch(ctx, "c", inbound(t, MessageTypeRemoteEmotion, map[string]string{"participantId": "p2", "emotion": "angry"})); err != nil {
		t.Fatalf("remote: %v", err)
	}
	if _, err := d.Dispatch(ctx, "c", inbound(t, MessageTypeParticipantLeft, map[string]string{"participantId": "p2"})); err != nil {
		t.Fatalf("left: %v", err)
	}
	if len(ing.joined) != 1 || ing.joined[0].Name != "Bo" || !ing.joined[0].JoinedAt.Equal(fixedNow) {
		t.Errorf("joined %+v", ing.joined)
	}
	if ing.remote["p2"] != models.EmotionAngry {
		t.Errorf("remote %v", ing.remote)
	}
	if len(ing.left) != 1 || ing.left[0] != "p2" {
		t.Errorf("left %v", ing.left)
	}

	if _, err := d.Dispatch(ctx, "c", inbound(t, MessageTypeParticipantJoined, map[string]string{"participantName": "Anon"})); !errors.Is(err, ErrBadPayload) {
		t.Errorf("joined without id: err = %v", err)
	}
}

func TestDispatch_Rejections(t *testing.T) {
	d, _ := newTestDispatcher(nil)
	ctx := context.Background()

	tests := []struct {
		name string
		in   Inbound
		want error
	}{
		{"unknown type", Inbound{Type: "telepathy", Data: json.RawMessage(`{}`)}, ErrUnknownType},
		{"missing data", Inbound{Type: MessageTypeEmotion}, ErrBadPayload},
		{"wrong shape", Inbound{Type: MessageTypeEmotion, Data: json.RawMessage(`[1,2]`)}, ErrBadPayload},
		{"unknown emotion", Inbound{Type: MessageTypeEmotion, Data: json.RawMessage(`{"participantId":"p1","emotion":"bored"}`)}, ErrBadPayload},
		{"no known scores", Inbound{Type: MessageTypeExpressions, Data: json.RawMessage(`{"scores":{"blink":1}}`)}, ErrBadPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.Dispatch(ctx, "c", tt.in); !errors.Is(err, tt.want) {
				t.Errorf("Dispatch() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDispatch_PingAndIngestError(t *testing.T) {
	d, ing := newTestDispatcher(nil)
	out, err := d.Dispatch(context.Background(), "c", Inbound{Type: MessageTypePing})
	if err != nil || out == nil || out.Type != MessageTypePong {
		t.Errorf("ping = %+v, %v", out, err)
	}

	ing.emotionErr = errors.New("session closed")
	in := inbound(t, MessageTypeEmotion, map[string]interface{}{"participantId": "p1", "emotion": "happy"})
	if _, err := d.Dispatch(context.Background(), "c", in); err == nil {
		t.Error("expected ingest error to surface")
	}
}

func TestMetricType(t *testing.T) {
	if got := metricType(MessageTypeSpeech); got != MessageTypeSpeech {
		t.Errorf("metricType(speech) = %q", got)
	}
	if got := metricType("x-" + time.Now().String()); got != "unknown" {
		t.Errorf("metricType(random) = %q", got)
	}
}
