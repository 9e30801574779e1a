package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, path and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	StockMovementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_movements_total",
			Help: "Stock ledger movements posted, by movement type",
		},
		[]string{"type"},
	)

	TransferTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transfer_transitions_total",
			Help: "Transfer status transitions, by target status",
		},
		[]string{"status"},
	)

	DiscrepanciesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_discrepancies_total",
			Help: "Discrepancies reported, by discrepancy type",
		},
		[]string{"type"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Cache lookups by outcome (hit, miss, error)",
		},
		[]string{"outcome"},
	)
)
