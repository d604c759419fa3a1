package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysisRuns counts analysis runs by outcome (success/failed).
	AnalysisRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_analyst_runs_total",
			Help: "Total analysis runs",
		},
		[]string{"status"},
	)

	// AnalysisDuration measures a full run including data retrieval.
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stock_analyst_run_duration_seconds",
			Help:    "Analysis run duration",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	// OverallScore is the last weighted score per symbol.
	OverallScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stock_analyst_overall_score",
			Help: "Last weighted score per symbol",
		},
		[]string{"symbol"},
	)

	// ProviderRequests counts market data requests by source and result.
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_analyst_provider_requests_total",
			Help: "Market data provider requests",
		},
		[]string{"source", "result"}, // result: ok/error/cache_hit
	)
)
