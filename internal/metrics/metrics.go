package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OperationsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typedpatch_operations_applied_total",
			Help: "Total number of patch operations applied successfully",
		},
		[]string{"op"},
	)

	OperationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typedpatch_operations_failed_total",
			Help: "Total number of patch operations that failed to apply",
		},
		[]string{"op", "error_type"},
	)

	ApplyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "typedpatch_apply_duration_seconds",
			Help:    "Duration of applying a whole patch set in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"result"},
	)
)
