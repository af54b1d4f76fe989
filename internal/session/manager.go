// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/moodmeet/internal/engagement"
	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/metrics"
	"github.com/tomtom215/moodmeet/internal/models"
	intsync "github.com/tomtom215/moodmeet/internal/sync"
)

// ErrNoSession is returned for operations that need a live session when
// the meeting has none.
var ErrNoSession = errors.New("session: no live session")

// Store is what the manager needs from the durable store.
type Store interface {
	intsync.Appender
	End(ctx context.Context, code string, at time.Time) (*models.Meeting, error)
}

// Supervisor runs the per-session runners. *suture.Supervisor implements it.
type Supervisor interface {
	Add(service suture.Service) suture.ServiceToken
	RemoveAndWait(id suture.ServiceToken, timeout time.Duration) error
}

type entry struct {
	session *Session
	runner  *Runner
	token   suture.ServiceToken
}

// Manager maps meeting codes to live sessions and their runners.
type Manager struct {
	store       Store
	sup         Supervisor
	advisor     engagement.Advisor
	broadcaster Broadcaster
	cfg         Config
	now         func() time.Time

	mu   sync.Mutex
	live map[string]*entry
}

// NewManager creates a manager. advisor and broadcaster may be nil.
func NewManager(store Store, sup Supervisor, advisor engagement.Advisor, broadcaster Broadcaster, cfg Config) *Manager {
	return &Manager{
		store:       store,
		sup:         sup,
		advisor:     advisor,
		broadcaster: broadcaster,
		cfg:         cfg.withDefaults(),
		now:         time.Now,
		live:        make(map[string]*entry),
	}
}

// Open starts a live session for m, or returns the running one.
func (m *Manager) Open(meeting *models.Meeting) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.live[meeting.Code]; ok {
		return e.session
	}

	sess := New(meeting)
	runner := NewRunner(sess, m.store, m.advisor, m.broadcaster, m.cfg)
	token := m.sup.Add(runner)
	m.live[meeting.Code] = &entry{session: sess, runner: runner, token: token}
	metrics.SessionsActive.Inc()

	logging.Info().Str("code", meeting.Code).Msg("Live session opened")
	return sess
}

// Get returns the live session for code.
func (m *Manager) Get(code string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live[code]
	if !ok {
		return nil, false
	}
	return e.session, true
}

func (m *Manager) entry(code string) (*entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live[code]
	return e, ok
}

// Active returns how many sessions are live.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// Live returns the current live metrics of code.
func (m *Manager) Live(ctx context.Context, code string) (models.LiveMetrics, error) {
	e, ok := m.entry(code)
	if !ok {
		return models.LiveMetrics{}, ErrNoSession
	}
	return e.runner.Live(ctx)
}

// Flush pushes unsent items of code to the store now. Meetings without a
// live session have nothing to flush.
func (m *Manager) Flush(ctx context.Context, code string) error {
	e, ok := m.entry(code)
	if !ok {
		return nil
	}
	return e.runner.Flush(ctx)
}

// End stops the session's ticks, runs the bounded final flush, writes the
// end marker and forgets the session. When no session is live only the end
// marker is written. An unknown meeting returns store.ErrNotFound.
//
// The end marker is written even when the final flush fails: items that
// could not be delivered within FinalFlushTimeout are lost.
func (m *Manager) End(ctx context.Context, code string) (*models.Meeting, error) {
	m.mu.Lock()
	e, ok := m.live[code]
	delete(m.live, code)
	m.mu.Unlock()

	result := "no_session"
	if ok {
		if err := e.session.SetStatus(ctx, models.StatusEnded); err != nil {
			logging.Debug().Err(err).Str("code", code).Msg("Session status before end")
		}

		if err := m.sup.RemoveAndWait(e.token, m.cfg.FinalFlushTimeout+time.Second); err != nil {
			logging.Debug().Err(err).Str("code", code).Msg("Session runner removal")
		}
		// No-op if Serve already flushed; runs it here if the runner never served.
		e.runner.finalFlush()

		result = "flushed"
		if err := e.runner.FinalFlushErr(ctx); err != nil {
			result = "flush_failed"
		}
		e.session.Close()
		metrics.SessionsActive.Dec()
	}

	meeting, err := m.store.End(ctx, code, m.now())
	if err != nil {
		return nil, fmt.Errorf("end meeting: %w", err)
	}
	metrics.SessionsEnded.WithLabelValues(result).Inc()
	logging.Info().Str("code", code).Str("result", result).Msg("Meeting ended")
	return meeting, nil
}

// Pending returns the items of code not yet acknowledged by the store.
// Readers that failed to Flush merge these into the persisted logs.
func (m *Manager) Pending(code string) ([]models.EmotionSnapshot, []models.TranscriptSegment) {
	e, ok := m.entry(code)
	if !ok {
		return nil, nil
	}
	ce, ct := e.runner.Cursors()
	emotions, _ := e.session.EmotionsFrom(ce)
	transcript, _ := e.session.TranscriptFrom(ct)
	return emotions, transcript
}
