package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotesOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_operations_total",
			Help: "Total number of note operations by operation and result",
		},
		[]string{"operation", "result"},
	)

	NotesDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notes_deleted_total",
			Help: "Total number of notes removed by delete and clear operations",
		},
	)

	NotesListedSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notes_listed_size",
			Help:    "Number of notes returned per list request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)
)
