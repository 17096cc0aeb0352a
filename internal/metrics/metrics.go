// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

// Package metrics provides Prometheus instrumentation for Steamscope:
// Steam API client latency and outcomes, cache gateway efficiency,
// recommendation engine run timing, and circuit breaker state.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Steam API Client Metrics
	SteamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steam_api_requests_total",
			Help: "Total number of Steam API requests",
		},
		[]string{"endpoint", "outcome"}, // outcome: success, error, rate_limited, not_found
	)

	SteamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "steam_api_request_duration_seconds",
			Help:    "Steam API request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"endpoint"},
	)

	// Cache Gateway Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits by key prefix",
		},
		[]string{"prefix"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses by key prefix",
		},
		[]string{"prefix"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of swallowed cache store errors",
		},
		[]string{"operation"}, // get, set, keys
	)

	// Recommendation Engine Metrics
	RecommendRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_runs_total",
			Help: "Total number of recommendation runs",
		},
		[]string{"outcome"}, // recommended, empty_library, empty_preferences, canceled
	)

	RecommendRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_run_duration_seconds",
			Help:    "Recommendation run duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	RecommendDetailFetches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_detail_fetches_total",
			Help: "Total number of per-title detail fetches issued by the engine",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)
)
