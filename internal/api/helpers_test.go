// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/moodmeet/internal/llm"
	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/models"
	"github.com/tomtom215/moodmeet/internal/session"
	"github.com/tomtom215/moodmeet/internal/store"
	ws "github.com/tomtom215/moodmeet/internal/websocket"
)

func init() {
	logging.SetLogger(logging.NewTestLogger(io.Discard))
}

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// fakeGenerator answers every prompt with reply, or fails with err.
type fakeGenerator struct {
	reply string
	err   error
}

func (f fakeGenerator) Generate(context.Context, string) (string, error) {
	return f.reply, f.err
}

type testEnv struct {
	store    *store.Store
	sessions *session.Manager
	hub      *ws.Hub
	handler  *Handler
	server   http.Handler
}

type envOption func(*Deps, *ChiMiddlewareConfig)

func withGenerator(g llm.Generator) envOption {
	return func(d *Deps, _ *ChiMiddlewareConfig) { d.LLM = llm.NewService(g) }
}

func withLimits(coaching, summary int) envOption {
	return func(_ *Deps, c *ChiMiddlewareConfig) {
		c.RateLimitDisabled = false
		c.CoachingLimit = coaching
		c.SummaryLimit = summary
	}
}

// newTestEnv wires the handlers to an in-memory store and a running
// session supervisor. Rate limits are off unless withLimits is given.
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	st, err := store.OpenForTesting()
	if err != nil {
		t.Fatalf("OpenForTesting() error = %v", err)
	}

	sup := suture.NewSimple("api-test")
	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	hub := ws.NewHub()
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		_ = hub.RunWithContext(ctx)
	}()

	cfg := session.DefaultConfig()
	cfg.SyncInterval = time.Hour
	cfg.CoachingInterval = time.Hour
	cfg.MetricsInterval = time.Hour
	cfg.FinalFlushTimeout = time.Second
	sessions := session.NewManager(st, sup, nil, hub, cfg)

	t.Cleanup(func() {
		cancel()
		<-errCh
		<-hubDone
		_ = st.Close()
	})

	deps := Deps{
		Store:          st,
		Sessions:       sessions,
		Hub:            hub,
		AllowedOrigins: []string{"http://localhost:5173"},
	}
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	for _, opt := range opts {
		opt(&deps, mwCfg)
	}

	h := NewHandler(deps)
	h.now = func() time.Time { return t0 }
	return &testEnv{
		store:    st,
		sessions: sessions,
		hub:      hub,
		handler:  h,
		server:   NewRouter(h, mwCfg).SetupChi(),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

// createMeeting creates a meeting through the API and returns it.
func (e *testEnv) createMeeting(t *testing.T, title string) models.Meeting {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/meetings", map[string]string{"title": title, "hostName": "Ana"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	return decodeData[models.Meeting](t, rec)
}

type envelope[T any] struct {
	Success bool       `json:"success"`
	Data    T          `json:"data"`
	Error   *ErrorBody `json:"error"`
	Meta    Meta       `json:"meta"`
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	if !env.Success {
		t.Fatalf("success = false, error %+v", env.Error)
	}
	return env.Data
}

// assertError checks the status and error code of a failed response.
func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) *ErrorBody {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	var env envelope[json.RawMessage]
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	if env.Success || env.Error == nil {
		t.Fatalf("expected an error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q", env.Error.Code, code)
	}
	return env.Error
}

func snapshot(sec int, who string, e models.Emotion) models.EmotionSnapshot {
	return models.EmotionSnapshot{
		ParticipantID:   who,
		ParticipantName: who,
		Timestamp:       t0.Add(time.Duration(sec) * time.Second),
		Emotion:         e,
		Confidence:      0.9,
	}
}

func segment(sec int, who, text string) models.TranscriptSegment {
	return models.TranscriptSegment{
		ParticipantID:   who,
		ParticipantName: who,
		Timestamp:       t0.Add(time.Duration(sec) * time.Second),
		Text:            text,
	}
}
