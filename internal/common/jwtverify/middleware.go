package jwtverify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/nickgeorgouses/note-app/internal/common/errors"
	commonhttp "github.com/nickgeorgouses/note-app/internal/common/http"
	"github.com/nickgeorgouses/note-app/internal/common/logger"
	"github.com/nickgeorgouses/note-app/internal/observability/metrics"
)

const (
	msgNoToken      = "Access denied. No token provided."
	msgInvalidToken = "Invalid or expired token"
)

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID   string
	Username string
}

// Claims is the token payload: the user id travels as sub, the username as usr.
type Claims struct {
	Username string `json:"usr"`
	jwt.RegisteredClaims
}

type contextKey struct{}

var identityKey contextKey

func Middleware(secret string, log *logger.Logger) func(next http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := commonhttp.TraceIDFromContext(r.Context())

			raw := r.Header.Get("Authorization")
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				log.WithFields(r.Context(), logger.Fields{
					"action": "jwt_missing",
					"path":   r.URL.Path,
				}).Warn("missing or invalid authorization header")
				commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, msgNoToken, nil, traceID)
				return
			}

			identity, err := ParseToken(strings.TrimPrefix(raw, "Bearer "), secretBytes)
			if err != nil {
				log.WithFields(r.Context(), logger.Fields{
					"action": "jwt_invalid",
					"path":   r.URL.Path,
				}).Warnf("token rejected: %v", err)
				commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, msgInvalidToken, nil, traceID)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// ParseToken verifies an HS256 token and extracts the caller identity from the sub and usr
// claims. Expiry is enforced by the jwt parser.
func ParseToken(tokenString string, secret []byte) (Identity, error) {
	metrics.JWTValidationsTotal.Inc()

	identity, err := parseToken(tokenString, secret)
	if err != nil {
		metrics.JWTValidationsFailed.Inc()
		return Identity{}, err
	}
	return identity, nil
}

func parseToken(tokenString string, secret []byte) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, commonerrors.ErrInvalidTokenSigningMethod
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, commonerrors.ErrInvalidToken.WithCause(err)
	}
	if !parsed.Valid {
		return Identity{}, commonerrors.ErrInvalidToken
	}

	if claims.Subject == "" || claims.Username == "" {
		return Identity{}, commonerrors.ErrMissingTokenClaims.WithCause(
			fmt.Errorf("sub=%t usr=%t", claims.Subject != "", claims.Username != ""))
	}

	return Identity{
		UserID:   claims.Subject,
		Username: claims.Username,
	}, nil
}
