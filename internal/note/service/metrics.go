package service

import (
	"github.com/nickgeorgouses/note-app/internal/observability/metrics"
)

func recordOperation(operation, result string) {
	metrics.NotesOperationsTotal.WithLabelValues(operation, result).Inc()
}

func recordDeleted(n int64) {
	metrics.NotesDeletedTotal.Add(float64(n))
}

func recordListed(n int) {
	metrics.NotesListedSize.Observe(float64(n))
}
