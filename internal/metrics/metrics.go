package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ============================================
	// Resolution metrics
	// ============================================
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_resolutions_total",
			Help: "Total number of allocation resolutions by outcome",
		},
		[]string{"outcome"},
	)

	ResolutionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "backend_resolution_duration_seconds",
		Help:    "End-to-end allocation resolution duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// ============================================
	// Chain scan metrics
	// ============================================
	ChunkQueriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backend_chunk_queries_total",
		Help: "Total number of chunked eth_getLogs queries issued",
	})

	// ============================================
	// Off-chain API metrics
	// ============================================
	OffChainFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backend_offchain_fetch_failures_total",
		Help: "Total number of off-chain allocation fetches that failed",
	})

	// ============================================
	// WebSocket metrics
	// ============================================
	WSConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "backend_ws_connections_active",
		Help: "Number of active resolution WebSocket connections",
	})
)
