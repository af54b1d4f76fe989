// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/moodmeet/internal/apiclient"
	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/models"
	intsync "github.com/tomtom215/moodmeet/internal/sync"
)

type replayOptions struct {
	Server       string
	Code         string
	Title        string
	Host         string
	Speed        float64
	SyncInterval time.Duration
	FlushTimeout time.Duration
	Restamp      bool
	NoEnd        bool
}

// replayResult summarizes a finished replay.
type replayResult struct {
	Code        string
	Emotions    int
	Transcript  int
	Ended       bool
	FinalStatus models.MeetingStatus
}

// replay feeds recs into local logs at capture cadence while two Syncers
// flush them to the server, then runs the final flush and ends the meeting.
func replay(ctx context.Context, c *apiclient.Client, recs []record, opts replayOptions) (*replayResult, error) {
	code := opts.Code
	if code == "" {
		m, err := c.CreateMeeting(ctx, opts.Title, opts.Host)
		if err != nil {
			return nil, fmt.Errorf("create meeting: %w", err)
		}
		code = m.Code
		logging.Info().Str("code", code).Msg("Meeting created")
	} else if _, err := c.GetMeeting(ctx, code); err != nil {
		return nil, fmt.Errorf("meeting %s: %w", code, err)
	}

	log := logging.WithComponent("replay").With().Str("code", code).Logger()

	var emotions localLog[models.EmotionSnapshot]
	var transcript localLog[models.TranscriptSegment]
	emoSync := intsync.New("emotions", emotions.source, apiclient.EmotionHTTPSender(c, code)).WithLogger(log)
	segSync := intsync.New("transcript", transcript.source, apiclient.TranscriptHTTPSender(c, code)).WithLogger(log)

	loopCtx, stopLoops := context.WithCancel(ctx)
	loopsDone := make(chan struct{}, 2)
	for _, loop := range []func(context.Context, time.Duration){emoSync.Loop, segSync.Loop} {
		go func() {
			loop(loopCtx, opts.SyncInterval)
			loopsDone <- struct{}{}
		}()
	}

	feedErr := feed(ctx, recs, opts, &emotions, &transcript)
	stopLoops()
	<-loopsDone
	<-loopsDone

	res := &replayResult{Code: code, Emotions: emotions.len(), Transcript: transcript.len()}

	// The final flush gets its own deadline so an interrupted replay still
	// delivers what it read.
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opts.FlushTimeout)
	defer cancel()
	var flushErr error
	if _, err := emoSync.Flush(flushCtx); err != nil {
		flushErr = errors.Join(flushErr, err)
	}
	if _, err := segSync.Flush(flushCtx); err != nil {
		flushErr = errors.Join(flushErr, err)
	}
	if flushErr != nil {
		log.Warn().Err(flushErr).
			Int("emotions_pending", res.Emotions-emoSync.Cursor()).
			Int("transcript_pending", res.Transcript-segSync.Cursor()).
			Msg("Final flush incomplete")
	}

	if !opts.NoEnd {
		m, err := c.End(flushCtx, code)
		if err != nil {
			return res, errors.Join(feedErr, flushErr, fmt.Errorf("end meeting: %w", err))
		}
		res.Ended, res.FinalStatus = true, m.Status
	}
	return res, errors.Join(feedErr, flushErr)
}

// feed appends every record at its capture offset. It stops early when ctx
// is done.
func feed(ctx context.Context, recs []record, opts replayOptions, emotions *localLog[models.EmotionSnapshot], transcript *localLog[models.TranscriptSegment]) error {
	start := time.Now().UTC()
	var first, prev time.Time
	for i := range recs {
		rec := recs[i]
		if wait := gap(prev, rec.at, opts.Speed); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		if !rec.at.IsZero() {
			prev = rec.at
		}

		if opts.Restamp && !rec.at.IsZero() {
			if first.IsZero() {
				first = rec.at
			}
			rec.restamp(start.Add(rec.at.Sub(first)))
		}
		switch {
		case rec.emotion != nil:
			emotions.append(*rec.emotion)
		case rec.transcript != nil:
			transcript.append(*rec.transcript)
		}
	}
	return nil
}
