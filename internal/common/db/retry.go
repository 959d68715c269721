package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nickgeorgouses/note-app/internal/common/constants"
	"github.com/nickgeorgouses/note-app/internal/common/logger"
	"github.com/nickgeorgouses/note-app/internal/observability/metrics"
)

type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

var DefaultConnectRetryConfig = RetryConfig{
	MaxAttempts:  constants.DBConnectMaxAttempts,
	InitialDelay: constants.DBConnectRetryDelay,
	MaxDelay:     constants.DBConnectMaxDelay,
	Multiplier:   2.0,
}

func isRetryableConnectError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, ErrUnsupportedBackend)
}

// RetryWithBackoff runs operation until it succeeds, fails with a non-retryable error, or
// the attempts are used up. It is meant for startup connects only; request paths never retry.
func RetryWithBackoff(ctx context.Context, log *logger.Logger, backend Backend, config RetryConfig, operation func(ctx context.Context) error) error {
	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := operation(ctx)
		if err == nil {
			metrics.StoreConnectAttempts.WithLabelValues(string(backend), "success").Inc()
			if attempt > 1 {
				log.Infof("%s connection succeeded after %d attempts", backend, attempt)
			}
			return nil
		}

		metrics.StoreConnectAttempts.WithLabelValues(string(backend), "failure").Inc()
		lastErr = err

		if !isRetryableConnectError(err) {
			return err
		}

		if attempt == config.MaxAttempts {
			break
		}

		log.Warnf("%s connection failed (attempt %d/%d): %v, retrying in %v", backend, attempt, config.MaxAttempts, err, delay)

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * config.Multiplier)
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}
	}

	return fmt.Errorf("%s connection failed after %d attempts: %w", backend, config.MaxAttempts, lastErr)
}
