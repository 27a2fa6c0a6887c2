package submit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "astatine"
	subsystem        = "submit"
)

var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "submissions_total",
			Help:      "Total number of transfer submissions",
		},
		[]string{"mode", "status"}, // status: "success", "error"
	)

	submissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "submission_duration_seconds",
			Help:      "Time taken to submit a single transfer",
			Buckets:   prometheus.DefBuckets,
		},
	)

	instructionsSignedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "instructions_signed_total",
			Help:      "Total number of transfer instructions signed",
		},
	)
)
