// Package metrics holds Prometheus instruments that are used across the
// site.  All collectors are registered with the global registry, so
// mounting promhttp.Handler() in main.go is enough to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_cache_hits_total",
			Help: "Read-through cache hits by key family.",
		}, []string{"family"})

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_cache_misses_total",
			Help: "Read-through cache misses by key family.",
		}, []string{"family"})

	CacheInvalidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_cache_invalidations_total",
			Help: "Tag invalidations, split into content tags and page paths.",
		}, []string{"kind"})

	CacheEvictions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "content_cache_evictions_total",
			Help: "Entries removed by the janitor sweep.",
		})

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route pattern, method, and status code.",
		}, []string{"route", "method", "status"})

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"})

	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_login_attempts_total",
			Help: "Admin login attempts by outcome.",
		}, []string{"outcome"})

	FormSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Public form submissions by form id and outcome.",
		}, []string{"form", "outcome"})
)

func init() {
	prometheus.MustRegister(
		CacheHits,
		CacheMisses,
		CacheInvalidations,
		CacheEvictions,
		HTTPRequests,
		HTTPDuration,
		LoginAttempts,
		FormSubmissions,
	)
}
