// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the recommendation engine:
// - pipeline throughput, latency, and per-stage behavior
// - collaborator call outcomes and circuit breaker state
// - price cache efficiency
// - API endpoint latency and throughput

var (
	// Pipeline Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total recommendation requests by outcome",
		},
		[]string{"outcome"}, // "success", "empty", "fallback", "not_initialized"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "End-to-end duration of recommendation requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"}, // "generate", "enhance", "validate", "finalize"
	)

	StageCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_candidates",
			Help:    "Number of candidates leaving each pipeline stage",
			Buckets: prometheus.LinearBuckets(0, 4, 10),
		},
		[]string{"stage"},
	)

	PipelineInitialized = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_initialized",
			Help: "Whether the orchestrator passed initialization (0 or 1)",
		},
	)

	// Collaborator Metrics
	CollaboratorRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collaborator_requests_total",
			Help: "Total calls to external collaborators by outcome",
		},
		[]string{"component", "result"}, // result: "success", "failure"
	)

	CollaboratorLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collaborator_latency_seconds",
			Help:    "Latency of collaborator calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"component"},
	)

	ComponentHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "component_health_status",
			Help: "Component health (0=unchecked, 1=healthy, 2=degraded, 3=unavailable, 4=error)",
		},
		[]string{"component"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Price Cache Metrics
	PriceCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "price_cache_hits_total",
			Help: "Total price cache hits",
		},
	)

	PriceCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "price_cache_misses_total",
			Help: "Total price cache misses",
		},
	)

	PriceCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "price_cache_evictions_total",
			Help: "Total price cache entries evicted or expired",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordStage records one pipeline stage execution.
func RecordStage(stage string, duration time.Duration, candidates int) {
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	StageCandidates.WithLabelValues(stage).Observe(float64(candidates))
}

// RecordCollaboratorCall records the outcome of one collaborator call.
func RecordCollaboratorCall(component string, duration time.Duration, err error) {
	CollaboratorLatency.WithLabelValues(component).Observe(duration.Seconds())
	result := "success"
	if err != nil {
		result = "failure"
	}
	CollaboratorRequests.WithLabelValues(component, result).Inc()
}

// RecordComponentHealth exports a component's status value.
func RecordComponentHealth(component string, statusValue float64) {
	ComponentHealth.WithLabelValues(component).Set(statusValue)
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
