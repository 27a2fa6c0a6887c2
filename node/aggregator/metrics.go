package aggregator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "astatine"
	subsystem        = "aggregator"
)

var (
	aggregationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "aggregations_total",
			Help:      "Total number of aggregations",
		},
		[]string{"status"}, // status: "success", "error"
	)

	pagesConsumed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "pages_consumed",
			Help:      "Number of feed pages consumed by an aggregation",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	windowBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "window_bytes",
			Help:      "Bytes contributed inside the last aggregation window",
		},
	)

	eligibleRecipients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "eligible_recipients",
			Help:      "Recipients above the minimum contribution in the last aggregation",
		},
	)
)
