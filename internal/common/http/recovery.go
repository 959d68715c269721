package http

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/nickgeorgouses/note-app/internal/common/httpmetrics"
	"github.com/nickgeorgouses/note-app/internal/common/logger"
	"github.com/nickgeorgouses/note-app/internal/observability/metrics"
)

// RecoveryMiddleware turns a handler panic into the generic 500 envelope. The stack goes
// to the log only.
func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				log.WithFields(r.Context(), logger.Fields{
					"action": "panic_recovered",
					"method": r.Method,
					"path":   r.URL.Path,
				}).Errorf("panic: %v\n%s", rec, debug.Stack())
				metrics.HTTPErrorsTotal.WithLabelValues(
					strconv.Itoa(http.StatusInternalServerError),
					httpmetrics.NormalizePath(r.URL.Path),
					r.Method,
				).Inc()

				WriteErrorEnvelope(w, http.StatusInternalServerError, CodeInternal, "Server error", nil, TraceIDFromContext(r.Context()))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
