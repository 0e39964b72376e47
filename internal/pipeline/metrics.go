package pipeline

import "github.com/prometheus/client_golang/prometheus"

var (
	classificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imgclassd",
			Subsystem: "pipeline",
			Name:      "classifications_total",
			Help:      "Submissions processed, by outcome",
		},
		[]string{"result"},
	)

	stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "imgclassd",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	reportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imgclassd",
			Subsystem: "pipeline",
			Name:      "reports_total",
			Help:      "Report render attempts, by outcome",
		},
		[]string{"result"},
	)

	rejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "imgclassd",
			Subsystem: "pipeline",
			Name:      "rejected_total",
			Help:      "Submissions rejected by admission control",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(classificationsTotal, stageDuration, reportsTotal, rejectedTotal)
}
