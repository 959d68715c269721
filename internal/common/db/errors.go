package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nickgeorgouses/note-app/internal/observability/metrics"
)

var (
	ErrNotConnected       = errors.New("database not initialized: call Connect first")
	ErrUnsupportedBackend = errors.New("unsupported database url scheme")
)

const pgUniqueViolation = "23505"

// ObserveQuery records the duration of a store call and, for failures other than the
// expected ones, counts and wraps the error.
func ObserveQuery(operation, collection string, startTime time.Time, err error, expected ...error) error {
	metrics.StoreQueryDurationSeconds.WithLabelValues(operation, collection).Observe(time.Since(startTime).Seconds())

	if err == nil {
		return nil
	}
	for _, e := range expected {
		if errors.Is(err, e) {
			return err
		}
	}

	metrics.StoreQueryErrors.WithLabelValues(operation, collection, errorKind(err)).Inc()
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case IsUniqueViolation(err):
		return "duplicate"
	default:
		return "other"
	}
}

// IsUniqueViolation reports whether err is a unique constraint failure from either store.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return mongo.IsDuplicateKeyError(err)
}
