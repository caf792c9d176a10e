package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Staleness sweep metrics
var (
	// StaleSweepsTotal counts sweeps by outcome (ok, partial, error)
	StaleSweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stale_sweeps_total",
			Help: "Total staleness sweeps by result",
		},
		[]string{"result"},
	)

	// AutoRejectedTotal counts applications moved to rejected by a sweep
	AutoRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "applications_auto_rejected_total",
			Help: "Total applications automatically rejected for staleness",
		},
	)

	StaleSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stale_sweep_duration_seconds",
			Help:    "Staleness sweep duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method and status code",
		},
		[]string{"method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

// Dashboard metrics
var (
	// DashboardLoadsTotal counts dashboard loads by outcome (ok, error)
	DashboardLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_loads_total",
			Help: "Total dashboard loads by result",
		},
		[]string{"result"},
	)
)
