package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/nickgeorgouses/note-app/internal/auth/http"
	authservice "github.com/nickgeorgouses/note-app/internal/auth/service"
	"github.com/nickgeorgouses/note-app/internal/common/clock"
	"github.com/nickgeorgouses/note-app/internal/common/config"
	commoncrypto "github.com/nickgeorgouses/note-app/internal/common/crypto"
	"github.com/nickgeorgouses/note-app/internal/common/db"
	commonhttp "github.com/nickgeorgouses/note-app/internal/common/http"
	"github.com/nickgeorgouses/note-app/internal/common/logger"
	"github.com/nickgeorgouses/note-app/internal/common/server"
	notehttp "github.com/nickgeorgouses/note-app/internal/note/http"
	noterepo "github.com/nickgeorgouses/note-app/internal/note/repository"
	noteservice "github.com/nickgeorgouses/note-app/internal/note/service"
	userrepo "github.com/nickgeorgouses/note-app/internal/user/repository"
)

const ServiceName = "notes"

type App struct {
	Config  config.NotesConfig
	Log     *logger.Logger
	Gateway *db.Gateway
	Handler http.Handler

	limiter *commonhttp.StrictRateLimiter
}

// NewApp connects to the store and wires the HTTP stack on top of it. The gateway is
// connected before anything is returned, so a listener started afterwards never sees an
// uninitialized store.
func NewApp(ctx context.Context, cfg config.NotesConfig, log *logger.Logger) (*App, error) {
	gateway, err := db.Connect(ctx, log, db.Config{
		URL:          cfg.StoreURL(),
		DatabaseName: cfg.DatabaseName,
		Retry:        db.DefaultConnectRetryConfig,
	})
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}

	ids := commoncrypto.NewUUIDGenerator()
	users := userrepo.New(gateway, ids)
	notes := noterepo.New(gateway, ids)

	var limiter *commonhttp.StrictRateLimiter
	if cfg.RateLimitEnabled {
		limiter = commonhttp.NewStrictRateLimiter(cfg.TrustProxyHeaders)
	}

	return &App{
		Config:  cfg,
		Log:     log,
		Gateway: gateway,
		Handler: NewHTTPHandler(cfg, log, users, notes, gateway.Ping, limiter),
		limiter: limiter,
	}, nil
}

// ShutdownHooks stops background work and releases the store after the server drains.
func (a *App) ShutdownHooks() []server.ShutdownHook {
	return []server.ShutdownHook{
		func(ctx context.Context) error {
			if a.limiter != nil {
				a.limiter.Stop()
			}
			return nil
		},
		func(ctx context.Context) error {
			a.Log.Info("closing store connection")
			return a.Gateway.Close(ctx)
		},
	}
}

// NewHTTPHandler builds services over the given repositories and returns the complete
// middleware-wrapped handler. ping backs /health; ping and limiter may be nil.
func NewHTTPHandler(
	cfg config.NotesConfig,
	log *logger.Logger,
	users userrepo.Repository,
	notes noterepo.Repository,
	ping func(ctx context.Context) error,
	limiter *commonhttp.StrictRateLimiter,
) http.Handler {
	realClock := clock.NewRealClock()
	tokens := authservice.NewTokenIssuer(cfg.JWTSecret, commoncrypto.NewUUIDGenerator(), cfg.TokenTTL, realClock)
	authSvc := authservice.NewAuthService(users, notes, commoncrypto.NewBcryptHasher(cfg.BcryptCost), tokens, realClock, log)
	noteSvc := noteservice.NewNoteService(notes, users, realClock, log)

	router := mux.NewRouter()
	router.HandleFunc("/", commonhttp.RootHandler()).Methods(http.MethodGet)
	router.Handle("/health", commonhttp.HealthHandler(log, ping))
	router.Handle("/metrics", promhttp.Handler())

	authhttp.NewHandler(authSvc, cfg.RequestTimeout, log).Register(router)
	notehttp.NewHandler(noteSvc, cfg.JWTSecret, cfg.RequestTimeout, log).Register(router)

	router.PathPrefix("/").Handler(commonhttp.StaticHandler(cfg.StaticDir))

	return commonhttp.BuildBaseHandler(ServiceName, log, router, limiter)
}
