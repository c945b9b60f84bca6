package internal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registered once per process; every Gateway reports into the same series.
var (
	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safpis_cache_lookups_total",
			Help: "Total number of gateway cache lookups by freshness class and result",
		},
		[]string{"freshness", "result"},
	)

	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safpis_upstream_requests_total",
			Help: "Total number of upstream requests by endpoint and status code",
		},
		[]string{"endpoint", "status"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "safpis_upstream_request_duration_seconds",
			Help:    "Upstream request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	historyRowsInserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safpis_history_rows_inserted_total",
			Help: "Total number of rows written to the price history database",
		},
		[]string{"table"},
	)
)
