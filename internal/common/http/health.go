package http

import (
	"context"
	"net/http"
	"time"

	"github.com/nickgeorgouses/note-app/internal/common/logger"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler reports whether the store answers. ping may be nil, in which case only
// process liveness is reported.
func HealthHandler(log *logger.Logger, ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			WriteErrorEnvelope(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed", nil, "")
			return
		}

		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()
			if err := ping(ctx); err != nil {
				log.WithFields(r.Context(), logger.Fields{"action": "health_store_down"}).Warnf("store ping failed: %v", err)
				WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "store": "down"})
				return
			}
		}

		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
