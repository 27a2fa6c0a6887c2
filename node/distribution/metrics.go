package distribution

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "astatine"
	subsystem        = "distribution"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "runs_total",
			Help:      "Total number of driver invocations",
		},
		[]string{"outcome"}, // outcome: "completed", "partial", "degenerate", "not_eligible", "error"
	)

	tokensExpendedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "tokens_expended_total",
			Help:      "Total number of token units expended by recorded runs",
		},
	)

	remainderTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "allocation_remainder_total",
			Help:      "Total number of token units lost to allocation truncation",
		},
	)

	remainingBalance = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "remaining_balance",
			Help:      "Remaining balance of the ledger after the last invocation",
		},
	)

	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "run_duration_seconds",
			Help:      "Time taken by a driver invocation",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)
)
