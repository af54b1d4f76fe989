// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/moodmeet/internal/middleware"
)

// Router binds the handlers to their routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil config uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, config *ChiMiddlewareConfig) *Router {
	return &Router{handler: handler, chiMiddleware: NewChiMiddleware(config)}
}

// SetupChi builds the HTTP handler for every route.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.Metrics)

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		r.Get("/health", h.Health)
		r.Get("/ws", h.WebSocket)

		r.Route("/meetings", func(r chi.Router) {
			r.Post("/", h.CreateMeeting)
			// Static before {code} so "history" is never taken for a code.
			r.Get("/history/list", h.History)

			r.Route("/{code}", func(r chi.Router) {
				r.Get("/", h.GetMeeting)
				r.Put("/join", h.JoinMeeting)
				r.Put("/end", h.EndMeeting)
				r.Post("/emotions", h.AppendEmotions)
				r.Post("/transcript", h.AppendTranscript)
				r.Get("/analytics", h.MeetingAnalytics)
				r.Get("/live", h.LiveMetrics)
			})
		})

		r.Get("/analytics/trend", h.Trend)

		r.Route("/ai", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitCoaching()).Post("/coaching", h.Coaching)
			r.With(router.chiMiddleware.RateLimitSummary()).Post("/summary", h.Summary)
			r.Post("/query", h.Query)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, CodeBadRequest, "Method not allowed", nil)
	})
	return r
}
