// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/moodmeet/internal/metrics"
)

// Rate limit messages per route group.
const (
	msgRateLimited         = "Too many requests, try again later"
	msgCoachingRateLimited = "Too many coaching requests, try again later"
	msgSummaryRateLimited  = "Too many summary requests, try again later"
)

// ChiMiddlewareConfig holds CORS and rate limit settings. Limits are
// requests per RateLimitWindow per client IP.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins []string
	CORSMaxAge         int // seconds

	RateLimitDisabled bool
	RateLimitWindow   time.Duration
	GeneralLimit      int
	CoachingLimit     int
	SummaryLimit      int
}

// DefaultChiMiddlewareConfig returns the limits of a default install.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		CORSMaxAge:         86400,
		RateLimitWindow:    time.Minute,
		GeneralLimit:       60,
		CoachingLimit:      5,
		SummaryLimit:       3,
	}
}

// ChiMiddleware builds the CORS and per-group rate limit middleware.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates the factory. A nil config uses the defaults.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}
	if config.RateLimitWindow <= 0 {
		config.RateLimitWindow = time.Minute
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: config.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         config.CORSMaxAge,
	})

	return &ChiMiddleware{config: config, cors: corsHandler}
}

// CORS returns the go-chi/cors handler.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit limits every API route.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.limit("general", m.config.GeneralLimit, msgRateLimited)
}

// RateLimitCoaching limits the coaching route.
func (m *ChiMiddleware) RateLimitCoaching() func(http.Handler) http.Handler {
	return m.limit("coaching", m.config.CoachingLimit, msgCoachingRateLimited)
}

// RateLimitSummary limits the summary route.
func (m *ChiMiddleware) RateLimitSummary() func(http.Handler) http.Handler {
	return m.limit("summary", m.config.SummaryLimit, msgSummaryRateLimited)
}

func (m *ChiMiddleware) limit(group string, requests int, message string) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled || requests <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return httprate.Limit(
		requests,
		m.config.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RateLimited.WithLabelValues(group).Inc()
			respondError(w, r, http.StatusTooManyRequests, CodeRateLimited, message, nil)
		}),
	)
}
