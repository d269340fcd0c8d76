// Newsup - Personalized News Feed Backend
// Copyright 2026 Newsup Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/newsup-io/newsup

// Package metrics exposes Prometheus instrumentation for the feed engine:
// cache efficiency, ranking backend latency, highlight recomputation, and
// API endpoint throughput. All collectors are registered on the default
// registry and served from /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation / highlight cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_cache_hits_total",
			Help: "Total number of ranked-list cache hits",
		},
		[]string{"cache"}, // "recommendations", "highlights"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_cache_misses_total",
			Help: "Total number of ranked-list cache misses",
		},
		[]string{"cache"},
	)

	CacheStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_cache_store_errors_total",
			Help: "Total number of cache store read/write failures",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)

	// Ranking backend metrics
	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ranking_query_duration_seconds",
			Help:    "Duration of similarity ranking queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RankingErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ranking_query_errors_total",
			Help: "Total number of failed similarity ranking queries",
		},
	)

	RankingFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ranking_unranked_fallbacks_total",
			Help: "Times the ranker returned candidates unranked because the backend produced zero rows",
		},
	)

	// Highlight recomputation metrics
	HighlightRecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "highlight_recompute_duration_seconds",
			Help:    "Duration of highlight score recomputation in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	HighlightArticlesRanked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "highlight_articles_ranked",
			Help: "Number of articles in the most recent highlight ranking",
		},
	)

	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)

	// API endpoint metrics
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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDBQuery records one database query with its outcome.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}
