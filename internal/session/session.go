// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

// Package session holds the live state of running meetings.
//
// Each Session is an actor: one goroutine owns the State and applies
// commands from a channel in arrival order. Producers (websocket ingest,
// batch endpoints, the coach) and readers (sync ticks, the live metric
// publisher) never touch the State directly, so every read observes a
// point in that single serial order. Logs are append-only.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/moodmeet/internal/analytics"
	"github.com/tomtom215/moodmeet/internal/models"
)

var (
	// ErrSessionClosed is returned by every command after Close.
	ErrSessionClosed = errors.New("session: closed")

	// ErrInvalidItem is returned for a snapshot or segment that fails
	// validation. Such items never reach the log.
	ErrInvalidItem = errors.New("session: invalid item")
)

// State is the live state of one meeting.
type State struct {
	Code           string
	Title          string
	HostName       string
	Status         models.MeetingStatus
	StartTime      time.Time
	Participants   []models.Participant
	Emotions       []models.EmotionSnapshot
	Transcript     []models.TranscriptSegment
	LocalEmotion   models.Emotion
	RemoteEmotions map[string]models.Emotion
}

// clone deep-copies s. The copy shares no backing array with the live log.
func (s *State) clone() State {
	out := *s
	out.Participants = append([]models.Participant(nil), s.Participants...)
	out.Emotions = append([]models.EmotionSnapshot(nil), s.Emotions...)
	out.Transcript = append([]models.TranscriptSegment(nil), s.Transcript...)
	out.RemoteEmotions = make(map[string]models.Emotion, len(s.RemoteEmotions))
	for k, v := range s.RemoteEmotions {
		out.RemoteEmotions[k] = v
	}
	return out
}

type command struct {
	apply func(st *State)
	done  chan struct{}
}

// Session is the single writer of one meeting's State.
type Session struct {
	code string
	cmds chan command
	quit chan struct{}
	done chan struct{}
	once sync.Once

	// window bounds item timestamps. Fixed at start.
	window analytics.TimeWindow

	// final is written once by the actor before done closes.
	final State
}

// New starts the actor for m. Logs in m are not copied: the session starts
// with empty logs and the store keeps what was persisted before.
func New(m *models.Meeting) *Session {
	s := &Session{
		code: m.Code,
		cmds: make(chan command),
		quit: make(chan struct{}),
		done: make(chan struct{}),

		window: analytics.MeetingWindow(m),
	}
	st := State{
		Code:           m.Code,
		Title:          m.Title,
		HostName:       m.HostName,
		Status:         m.Status,
		StartTime:      m.StartTime,
		Participants:   append([]models.Participant(nil), m.Participants...),
		RemoteEmotions: make(map[string]models.Emotion),
	}
	go s.run(st)
	return s
}

func (s *Session) run(st State) {
	defer close(s.done)
	for {
		select {
		case c := <-s.cmds:
			c.apply(&st)
			close(c.done)
		case <-s.quit:
			s.final = st
			return
		}
	}
}

// Code returns the meeting code.
func (s *Session) Code() string { return s.code }

// Close stops the actor. Reads after Close return the final state; writes
// return ErrSessionClosed. Safe to call more than once.
func (s *Session) Close() {
	s.once.Do(func() { close(s.quit) })
	<-s.done
}

// do hands fn to the actor and waits until it has been applied. Once the
// actor accepts a command it always applies it, so only the hand-off
// honours ctx.
func (s *Session) do(ctx context.Context, fn func(st *State)) error {
	select {
	case <-s.quit:
		return ErrSessionClosed
	default:
	}
	c := command{apply: fn, done: make(chan struct{})}
	select {
	case s.cmds <- c:
	case <-s.quit:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-c.done
	return nil
}

// read runs fn against the live state, or against the final state once the
// session is closed.
func (s *Session) read(ctx context.Context, fn func(st *State)) error {
	err := s.do(ctx, fn)
	if errors.Is(err, ErrSessionClosed) {
		<-s.done
		fn(&s.final)
		return nil
	}
	return err
}

// acceptSnapshot validates snap and checks it was stamped during the meeting.
func (s *Session) acceptSnapshot(snap *models.EmotionSnapshot) bool {
	return analytics.ValidSnapshot(snap) && s.window.Contains(snap.Timestamp)
}

func (s *Session) acceptSegment(seg *models.TranscriptSegment) bool {
	return analytics.ValidSegment(seg) && s.window.Contains(seg.Timestamp)
}

// AppendEmotion appends one validated snapshot.
func (s *Session) AppendEmotion(ctx context.Context, snap models.EmotionSnapshot) error {
	if !s.acceptSnapshot(&snap) {
		return fmt.Errorf("%w: emotion snapshot from %q", ErrInvalidItem, snap.ParticipantID)
	}
	return s.do(ctx, func(st *State) {
		st.Emotions = append(st.Emotions, snap)
	})
}

// AppendEmotions appends the valid snapshots of a batch in order, as one
// command, and reports how many were rejected.
func (s *Session) AppendEmotions(ctx context.Context, snaps []models.EmotionSnapshot) (added, rejected int, err error) {
	valid := make([]models.EmotionSnapshot, 0, len(snaps))
	for i := range snaps {
		if s.acceptSnapshot(&snaps[i]) {
			valid = append(valid, snaps[i])
		}
	}
	rejected = len(snaps) - len(valid)
	if len(valid) == 0 {
		return 0, rejected, nil
	}
	if err := s.do(ctx, func(st *State) {
		st.Emotions = append(st.Emotions, valid...)
	}); err != nil {
		return 0, rejected, err
	}
	return len(valid), rejected, nil
}

// AppendTranscript appends one validated segment.
func (s *Session) AppendTranscript(ctx context.Context, seg models.TranscriptSegment) error {
	if !s.acceptSegment(&seg) {
		return fmt.Errorf("%w: transcript segment from %q", ErrInvalidItem, seg.ParticipantID)
	}
	return s.do(ctx, func(st *State) {
		st.Transcript = append(st.Transcript, seg)
	})
}

// AppendTranscripts is the batch form of AppendTranscript.
func (s *Session) AppendTranscripts(ctx context.Context, segs []models.TranscriptSegment) (added, rejected int, err error) {
	valid := make([]models.TranscriptSegment, 0, len(segs))
	for i := range segs {
		if s.acceptSegment(&segs[i]) {
			valid = append(valid, segs[i])
		}
	}
	rejected = len(segs) - len(valid)
	if len(valid) == 0 {
		return 0, rejected, nil
	}
	if err := s.do(ctx, func(st *State) {
		st.Transcript = append(st.Transcript, valid...)
	}); err != nil {
		return 0, rejected, err
	}
	return len(valid), rejected, nil
}

// Join upserts a roster entry. A rejoin keeps the original join time and
// clears LeftAt. A waiting meeting becomes active.
func (s *Session) Join(ctx context.Context, p models.Participant) error {
	return s.do(ctx, func(st *State) {
		if st.Status == models.StatusWaiting {
			st.Status = models.StatusActive
		}
		for i := range st.Participants {
			if st.Participants[i].ID == p.ID {
				st.Participants[i].Name = p.Name
				st.Participants[i].LeftAt = nil
				return
			}
		}
		st.Participants = append(st.Participants, p)
	})
}

// Leave marks a participant as gone and forgets their remote emotion.
func (s *Session) Leave(ctx context.Context, participantID string, at time.Time) error {
	return s.do(ctx, func(st *State) {
		for i := range st.Participants {
			if st.Participants[i].ID == participantID && st.Participants[i].LeftAt == nil {
				left := at
				st.Participants[i].LeftAt = &left
			}
		}
		delete(st.RemoteEmotions, participantID)
	})
}

// SetLocalEmotion sets the emotion shown for the local participant.
func (s *Session) SetLocalEmotion(ctx context.Context, e models.Emotion) error {
	if !e.Valid() {
		return fmt.Errorf("%w: emotion %q", ErrInvalidItem, e)
	}
	return s.do(ctx, func(st *State) { st.LocalEmotion = e })
}

// SetRemoteEmotion records the latest emotion reported for a remote peer.
func (s *Session) SetRemoteEmotion(ctx context.Context, participantID string, e models.Emotion) error {
	if !e.Valid() {
		return fmt.Errorf("%w: emotion %q", ErrInvalidItem, e)
	}
	return s.do(ctx, func(st *State) { st.RemoteEmotions[participantID] = e })
}

// SetStatus changes the lifecycle status.
func (s *Session) SetStatus(ctx context.Context, status models.MeetingStatus) error {
	return s.do(ctx, func(st *State) { st.Status = status })
}

// Snapshot returns a deep copy of the whole state.
func (s *Session) Snapshot(ctx context.Context) (State, error) {
	var out State
	err := s.read(ctx, func(st *State) { out = st.clone() })
	return out, err
}

// Tail returns copies of the last nEmotions snapshots and the last
// nSegments transcript segments, observed together.
func (s *Session) Tail(ctx context.Context, nEmotions, nSegments int) ([]models.EmotionSnapshot, []models.TranscriptSegment, error) {
	var e []models.EmotionSnapshot
	var t []models.TranscriptSegment
	err := s.read(ctx, func(st *State) {
		e = copyTail(st.Emotions, nEmotions)
		t = copyTail(st.Transcript, nSegments)
	})
	return e, t, err
}

// EmotionsFrom returns a copy of the emotion log from index from, and the
// log length, observed together. It is the sync source of the emotion log.
func (s *Session) EmotionsFrom(from int) ([]models.EmotionSnapshot, int) {
	var out []models.EmotionSnapshot
	var n int
	_ = s.read(context.Background(), func(st *State) {
		n = len(st.Emotions)
		out = copyFrom(st.Emotions, from)
	})
	return out, n
}

// TranscriptFrom is the transcript counterpart of EmotionsFrom.
func (s *Session) TranscriptFrom(from int) ([]models.TranscriptSegment, int) {
	var out []models.TranscriptSegment
	var n int
	_ = s.read(context.Background(), func(st *State) {
		n = len(st.Transcript)
		out = copyFrom(st.Transcript, from)
	})
	return out, n
}

func copyFrom[T any](log []T, from int) []T {
	if from >= len(log) {
		return nil
	}
	return append([]T(nil), log[from:]...)
}

func copyTail[T any](log []T, n int) []T {
	if n <= 0 {
		return nil
	}
	from := len(log) - n
	if from < 0 {
		from = 0
	}
	return append([]T(nil), log[from:]...)
}
