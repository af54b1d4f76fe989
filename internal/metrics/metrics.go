// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

// Package metrics declares the Prometheus collectors exported at /metrics.
//
// Collectors are registered with the default registry through promauto, so
// importing the package is enough to expose them. Meeting codes are never
// used as label values; per-meeting cardinality would grow without bound.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmeet_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodmeet_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moodmeet_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmeet_api_rate_limited_total",
			Help: "Requests rejected by a rate limit, by route group",
		},
		[]string{"group"},
	)

	// Sync engine
	SyncItemsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmeet_sync_items_sent_total",
			Help: "Log items acknowledged by the durable store",
		},
		[]string{"log"}, // "emotions", "transcript"
	)

	SyncFlushFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmeet_sync_flush_failures_total",
			Help: "Flushes that failed and will be retried on the next tick",
		},
		[]string{"log"},
	)

	SyncFlushDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodmeet_sync_flush_duration_seconds",
			Help:    "Duration of non-empty flushes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"log"},
	)

	SyncBatchSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodmeet_sync_batch_size",
			Help:    "Items per flush",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 1000},
		},
		[]string{"log"},
	)

	// Sessions
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moodmeet_sessions_active",
			Help: "Live meeting sessions held in memory",
		},
	)

	SessionsEnded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmeet_sessions_ended_total",
			Help: "Ended sessions by final flush outcome",
		},
		[]string{"result"}, // "flushed", "partial"
	)

	TelemetryIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmeet_telemetry_ingested_total",
			Help: "Events accepted into session logs",
		},
		[]string{"kind", "source"}, // kind: emotion|transcript, source: ws|http
	)

	TelemetryRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmeet_telemetry_rejected_total",
			Help: "Events rejected by validation",
		},
		[]string{"kind"},
	)

	// Live metrics
	EngagementScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moodmeet_engagement_score",
			Help:    "Distribution of published live engagement scores",
			Buckets: []float64{20, 40, 60, 80, 100},
		},
	)

	CoachingOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmeet_coaching_ticks_total",
			Help: "Coaching ticks by outcome",
		},
		[]string{"outcome"}, // "tip", "empty", "error", "skipped", "repeat"
	)

	// LLM
	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmeet_llm_requests_total",
			Help: "Text generation requests",
		},
		[]string{"operation", "result"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodmeet_llm_request_duration_seconds",
			Help:    "Text generation latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"operation"},
	)

	// Circuit breakers
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moodmeet_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmeet_circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmeet_circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Store
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodmeet_store_operation_duration_seconds",
			Help:    "Badger store operation latency",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmeet_store_operation_errors_total",
			Help: "Badger store operation failures",
		},
		[]string{"operation"},
	)

	StoreAppendedItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmeet_store_appended_items_total",
			Help: "Items appended to persisted logs",
		},
		[]string{"field"},
	)

	StoreConflictRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodmeet_store_conflict_retries_total",
			Help: "Append transactions retried after a write conflict",
		},
	)

	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmeet_store_gc_runs_total",
			Help: "Value log GC passes by result",
		},
		[]string{"result"}, // "rewritten", "noop", "error"
	)

	// WebSocket
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moodmeet_websocket_connections",
			Help: "Open WebSocket connections",
		},
	)

	WSMessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmeet_websocket_messages_received_total",
			Help: "Producer messages received by type",
		},
		[]string{"type"},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodmeet_websocket_messages_dropped_total",
			Help: "Messages dropped because a buffer was full",
		},
	)

	// Events
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmeet_events_published_total",
			Help: "Lifecycle events published",
		},
		[]string{"topic"},
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmeet_events_handled_total",
			Help: "Lifecycle events handled by result",
		},
		[]string{"topic", "result"},
	)

	// Classifier
	ClassifierState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moodmeet_classifier_state",
			Help: "Classifier init state (0=uninitialized, 1=loading, 2=ready, 3=failed)",
		},
	)
)

// RecordAPIRequest records one finished HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSyncFlush records one non-empty flush attempt.
func RecordSyncFlush(log string, items int, duration time.Duration, err error) {
	SyncFlushDuration.WithLabelValues(log).Observe(duration.Seconds())
	if err != nil {
		SyncFlushFailures.WithLabelValues(log).Inc()
		return
	}
	SyncItemsSent.WithLabelValues(log).Add(float64(items))
	SyncBatchSize.WithLabelValues(log).Observe(float64(items))
}

// RecordStoreOp records a store operation and its outcome.
func RecordStoreOp(operation string, start time.Time, err error) {
	StoreOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(operation).Inc()
	}
}

// RecordLLMRequest records one generation call.
func RecordLLMRequest(operation string, duration time.Duration, err error) {
	LLMRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	result := "success"
	if err != nil {
		result = "error"
	}
	LLMRequests.WithLabelValues(operation, result).Inc()
}
