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

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodmeet/internal/engagement"
	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/metrics"
	"github.com/tomtom215/moodmeet/internal/models"
	intsync "github.com/tomtom215/moodmeet/internal/sync"
)

// Broadcaster delivers a message to every client in a meeting room.
// The websocket hub implements it.
type Broadcaster interface {
	BroadcastToRoom(code, msgType string, data interface{})
}

// Config holds the per-session tick periods.
type Config struct {
	SyncInterval      time.Duration
	CoachingInterval  time.Duration
	MetricsInterval   time.Duration
	FinalFlushTimeout time.Duration
}

// DefaultConfig returns the production cadence.
func DefaultConfig() Config {
	return Config{
		SyncInterval:      30 * time.Second,
		CoachingInterval:  20 * time.Second,
		MetricsInterval:   5 * time.Second,
		FinalFlushTimeout: 5 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.SyncInterval <= 0 {
		c.SyncInterval = def.SyncInterval
	}
	if c.CoachingInterval <= 0 {
		c.CoachingInterval = def.CoachingInterval
	}
	if c.MetricsInterval <= 0 {
		c.MetricsInterval = def.MetricsInterval
	}
	if c.FinalFlushTimeout <= 0 {
		c.FinalFlushTimeout = def.FinalFlushTimeout
	}
	return c
}

// Runner owns every periodic task of one session: the two sync ticks, the
// coaching tick and the live metric tick. It implements suture.Service;
// removing it from the supervisor cancels Serve's context, which stops all
// ticks, and Serve performs the bounded final flush before returning.
type Runner struct {
	session     *Session
	emotions    *intsync.Syncer[models.EmotionSnapshot]
	transcript  *intsync.Syncer[models.TranscriptSegment]
	coach       *engagement.Coach
	broadcaster Broadcaster
	cfg         Config
	logger      zerolog.Logger

	flushed chan struct{}
	result  flushResult
	once    sync.Once
}

type flushResult struct {
	emotions, transcript error
}

// NewRunner wires the sync engine for sess to appender. advisor and
// broadcaster may be nil, which disables coaching and live publishing.
func NewRunner(sess *Session, appender intsync.Appender, advisor engagement.Advisor, broadcaster Broadcaster, cfg Config) *Runner {
	logger := logging.WithComponent("session").With().Str("code", sess.Code()).Logger()
	r := &Runner{
		session:     sess,
		emotions:    intsync.New("emotions", sess.EmotionsFrom, intsync.EmotionSender(appender, sess.Code())).WithLogger(logger),
		transcript:  intsync.New("transcript", sess.TranscriptFrom, intsync.TranscriptSender(appender, sess.Code())).WithLogger(logger),
		broadcaster: broadcaster,
		cfg:         cfg.withDefaults(),
		logger:      logger,
		flushed:     make(chan struct{}),
	}
	if advisor != nil {
		r.coach = engagement.NewCoach(advisor)
	}
	return r
}

// String implements fmt.Stringer for suture logs.
func (r *Runner) String() string {
	return "session-" + r.session.Code()
}

// Serve implements suture.Service.
func (r *Runner) Serve(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); r.emotions.Loop(ctx, r.cfg.SyncInterval) }()
	go func() { defer wg.Done(); r.transcript.Loop(ctx, r.cfg.SyncInterval) }()
	if r.coach != nil {
		wg.Add(1)
		go func() { defer wg.Done(); r.tick(ctx, r.cfg.CoachingInterval, r.coachTick) }()
	}
	if r.broadcaster != nil {
		wg.Add(1)
		go func() { defer wg.Done(); r.tick(ctx, r.cfg.MetricsInterval, r.publish) }()
	}
	wg.Wait()

	r.finalFlush()
	return ctx.Err()
}

func (r *Runner) tick(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}

func (r *Runner) coachTick(ctx context.Context) {
	emotions, transcript, err := r.session.Tail(ctx, engagement.CoachEmotionTail, engagement.CoachTranscriptTail)
	if err != nil {
		return
	}
	if _, ok := r.coach.Tick(ctx, emotions, transcript); ok {
		r.publish(ctx)
	}
}

func (r *Runner) publish(ctx context.Context) {
	live, err := r.Live(ctx)
	if err != nil {
		return
	}
	metrics.EngagementScore.Observe(float64(live.Engagement.Score))
	r.broadcaster.BroadcastToRoom(r.session.Code(), "engagement.update", live)
}

// Live computes the current live metrics.
func (r *Runner) Live(ctx context.Context) (models.LiveMetrics, error) {
	var in engagement.LiveInput
	var total int
	err := r.session.read(ctx, func(st *State) {
		remote := make(map[string]models.Emotion, len(st.RemoteEmotions))
		for id, e := range st.RemoteEmotions {
			remote[id] = e
		}
		in = engagement.LiveInput{
			Code:           st.Code,
			Status:         st.Status,
			Emotions:       copyTail(st.Emotions, engagement.WindowSize),
			SegmentCount:   len(st.Transcript),
			LocalEmotion:   st.LocalEmotion,
			RemoteEmotions: remote,
		}
		total = len(st.Emotions)
	})
	if err != nil {
		return models.LiveMetrics{}, err
	}
	if r.coach != nil {
		in.Tips = r.coach.Tips()
	}
	live := engagement.Live(in)
	live.EmotionCount = total
	return live, nil
}

// Flush runs one flush of both logs now. It is safe to call while ticks
// are running; flushes of each log are serialised by its syncer.
func (r *Runner) Flush(ctx context.Context) error {
	_, errE := r.emotions.Flush(ctx)
	_, errT := r.transcript.Flush(ctx)
	return errors.Join(errE, errT)
}

// Cursors reports how many items of each log have been acknowledged.
func (r *Runner) Cursors() (emotions, transcript int) {
	return r.emotions.Cursor(), r.transcript.Cursor()
}

// finalFlush runs the end-of-session flush of both logs, emotions first,
// bounded by FinalFlushTimeout. It runs at most once per runner.
func (r *Runner) finalFlush() {
	r.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.FinalFlushTimeout)
		defer cancel()

		_, r.result.emotions = r.emotions.Flush(ctx)
		_, r.result.transcript = r.transcript.Flush(ctx)
		if err := errors.Join(r.result.emotions, r.result.transcript); err != nil {
			r.logger.Warn().Err(err).Msg("Final flush incomplete; unsent items are lost")
		} else {
			e, t := r.Cursors()
			r.logger.Info().Int("emotions", e).Int("transcript", t).Msg("Final flush complete")
		}
		close(r.flushed)
	})
}

// FinalFlushErr waits for the final flush and returns its error.
func (r *Runner) FinalFlushErr(ctx context.Context) error {
	select {
	case <-r.flushed:
		if err := errors.Join(r.result.emotions, r.result.transcript); err != nil {
			return fmt.Errorf("final flush: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
