package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheLookups Labels: result (hit, miss)
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trade_radar",
		Subsystem: "analysis",
		Name:      "cache_lookups_total",
		Help:      "Analysis cache lookups by result",
	}, []string{"result"})

	// reportsBuilt Labels: status (success, error), source (generated, fallback, none)
	reportsBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trade_radar",
		Subsystem: "analysis",
		Name:      "reports_total",
		Help:      "Analysis reports built on cache miss",
	}, []string{"status", "source"})

	collectionDegraded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trade_radar",
		Subsystem: "analysis",
		Name:      "collection_degraded_total",
		Help:      "Collections where at least one search query failed",
	})

	buildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trade_radar",
		Subsystem: "analysis",
		Name:      "build_duration_seconds",
		Help:      "Time spent collecting and synthesizing a report",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
	})

	// RateLimited 被限流拒绝的请求数
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trade_radar",
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the per-caller rate limiter",
	})
)
