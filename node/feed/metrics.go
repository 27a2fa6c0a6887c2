package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "astatine"
	subsystem        = "feed"
)

var (
	pageRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "page_requests_total",
			Help:      "Total number of page requests sent to feed endpoints",
		},
		[]string{"endpoint", "status"}, // status: "success", "error", "malformed"
	)

	pageRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "page_request_duration_seconds",
			Help:      "Time taken to fetch a single page",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	recordsReceivedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "records_received_total",
			Help:      "Total number of contribution records received",
		},
	)

	endpointFailoversTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "endpoint_failovers_total",
			Help:      "Total number of requests served by a fallback endpoint",
		},
		[]string{"endpoint"},
	)
)
