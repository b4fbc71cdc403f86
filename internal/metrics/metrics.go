// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Mutation results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	// APILatency measures HTTP request latencies by route pattern.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "churchnav_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// MenuMutations counts item mutations by operation
	// (create|update|delete|reorder) and result.
	MenuMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "churchnav_menu_mutations_total",
			Help: "Total number of menu item mutations",
		},
		[]string{"operation", "result"},
	)

	// CacheHits counts menu tree cache hits.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "churchnav_menu_cache_hits_total",
			Help: "Menu tree cache hits",
		},
	)

	// CacheMisses counts menu tree cache misses.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "churchnav_menu_cache_misses_total",
			Help: "Menu tree cache misses",
		},
	)

	// RateLimited counts requests rejected by the mutation rate limiter.
	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "churchnav_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)

// RecordMutation counts one mutation outcome.
func RecordMutation(operation string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	MenuMutations.WithLabelValues(operation, result).Inc()
}
