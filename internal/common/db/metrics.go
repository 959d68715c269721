package db

import (
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/nickgeorgouses/note-app/internal/common/constants"
	"github.com/nickgeorgouses/note-app/internal/observability/metrics"
)

// StartPoolMetrics samples pool statistics until stop is closed.
func StartPoolMetrics(pool *pgxpool.Pool, interval time.Duration, stop <-chan struct{}) {
	if interval <= 0 {
		interval = constants.DBPoolMetricsInterval
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				recordPoolStats(pool.Stat())
			}
		}
	}()
}

func recordPoolStats(stats *pgxpool.Stat) {
	metrics.PgPoolConnections.WithLabelValues("acquired").Set(float64(stats.AcquiredConns()))
	metrics.PgPoolConnections.WithLabelValues("idle").Set(float64(stats.IdleConns()))
	metrics.PgPoolConnections.WithLabelValues("total").Set(float64(stats.TotalConns()))
	metrics.PgPoolConnections.WithLabelValues("max").Set(float64(stats.MaxConns()))
}
