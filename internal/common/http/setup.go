package http

import (
	"net/http"
	"strings"

	"github.com/nickgeorgouses/note-app/internal/common/constants"
	"github.com/nickgeorgouses/note-app/internal/common/httpmetrics"
	"github.com/nickgeorgouses/note-app/internal/common/logger"
)

// BuildBaseHandler wraps handler in the middleware every request passes through, outermost
// first: security headers, trace id, slash trimming, rate limiting, panic recovery, body
// limit, request metrics. A nil limiter disables rate limiting.
func BuildBaseHandler(serviceName string, log *logger.Logger, handler http.Handler, limiter *StrictRateLimiter) http.Handler {
	chain := []func(http.Handler) http.Handler{
		SecurityHeadersMiddleware(""),
		TraceIDMiddleware,
		TrimTrailingSlashMiddleware("/api/"),
	}
	if limiter != nil {
		chain = append(chain, limiter.Middleware)
	}
	chain = append(chain,
		RecoveryMiddleware(log),
		MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize),
		httpmetrics.New(serviceName).Wrap,
	)

	for i := len(chain) - 1; i >= 0; i-- {
		handler = chain[i](handler)
	}
	return handler
}

// TrimTrailingSlashMiddleware drops a trailing slash from paths under prefix so that
// "/api/notes/" routes, and is rate limited, the same as "/api/notes".
func TrimTrailingSlashMiddleware(prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if strings.HasPrefix(path, prefix) && len(path) > len(prefix) && strings.HasSuffix(path, "/") {
				r2 := r.Clone(r.Context())
				r2.URL.Path = strings.TrimRight(path, "/")
				r2.URL.RawPath = ""
				r = r2
			}
			next.ServeHTTP(w, r)
		})
	}
}
