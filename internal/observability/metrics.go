// Package observability holds the process-wide Prometheus collectors.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsefeed_http_requests_total",
		Help: "HTTP requests by method, route and status class.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pulsefeed_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	RateLimitDeniedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulsefeed_rate_limit_denied_total",
		Help: "Requests denied by the fixed-window rate limiter.",
	})

	SeedCyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsefeed_seed_cycles_total",
		Help: "Seed cycles by outcome.",
	}, []string{"outcome"})

	UpstreamFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulsefeed_upstream_failures_total",
		Help: "Failed upstream fetches by resource.",
	}, []string{"resource"})
)
