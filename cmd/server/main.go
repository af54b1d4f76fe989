// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/moodmeet/internal/api"
	"github.com/tomtom215/moodmeet/internal/classifier"
	"github.com/tomtom215/moodmeet/internal/config"
	"github.com/tomtom215/moodmeet/internal/events"
	"github.com/tomtom215/moodmeet/internal/llm"
	"github.com/tomtom215/moodmeet/internal/logging"
	"github.com/tomtom215/moodmeet/internal/session"
	"github.com/tomtom215/moodmeet/internal/store"
	"github.com/tomtom215/moodmeet/internal/summary"
	"github.com/tomtom215/moodmeet/internal/supervisor"
	"github.com/tomtom215/moodmeet/internal/supervisor/services"
	ws "github.com/tomtom215/moodmeet/internal/websocket"
)

//nolint:gocyclo // sequential setup
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LoggingOptions())

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("store_path", cfg.Store.Path).
		Bool("llm_configured", cfg.LLM.Configured()).
		Bool("nats_enabled", cfg.Events.NATSEnabled).
		Msg("Starting MoodMeet")

	st, err := store.Open(cfg.StoreOptions())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// AI features degrade to fixed messages without a key.
	var gen llm.Generator
	if cfg.LLM.Configured() {
		gen = llm.NewGeminiClient(cfg.GeminiOptions())
	} else {
		logging.Warn().Msg("GEMINI_API_KEY not set, AI coaching and summaries disabled")
	}
	llmSvc := llm.NewService(gen)
	summarySvc := summary.NewService(st, llmSvc)

	var detector classifier.Classifier
	if cfg.Classifier.URL != "" {
		detector = classifier.NewHTTPClassifier(cfg.Classifier.URL, cfg.Classifier.Timeout)
		logging.Info().Str("url", cfg.Classifier.URL).Msg("Frame classifier configured")
	}

	wsHub := ws.NewHub()

	var bus *events.Bus
	if cfg.Events.NATSEnabled {
		bus, err = events.NewNATSBus(cfg.Events.NATS, events.NewLogger())
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize NATS event bus")
		}
	} else {
		bus = events.NewInMemoryBus(events.NewLogger())
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	var summarizer events.Summarizer
	if cfg.Events.AutoSummary {
		summarizer = summarySvc
	}
	eventRouter := events.NewRouter(bus, events.DefaultRouterConfig())
	events.Register(eventRouter, bus, wsHub, summarizer)

	sessions := session.NewManager(st, tree.Sessions(), llmSvc, wsHub, cfg.SessionOptions())

	handler := api.NewHandler(api.Deps{
		Store:          st,
		Sessions:       sessions,
		LLM:            llmSvc,
		Summaries:      summarySvc,
		Bus:            bus,
		Hub:            wsHub,
		Classifier:     detector,
		AllowedOrigins: cfg.Security.CORSOrigins,
	})

	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled
	mw.GeneralLimit = cfg.Security.GeneralPerMinute
	mw.CoachingLimit = cfg.Security.CoachingPerMinute
	mw.SummaryLimit = cfg.Security.SummaryPerMinute
	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree.AddDataService(services.NewStoreGCService(st))
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddMessagingService(eventRouter)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Application stopped gracefully")
}
