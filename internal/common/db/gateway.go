package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nickgeorgouses/note-app/internal/common/constants"
	"github.com/nickgeorgouses/note-app/internal/common/logger"
)

type Backend string

const (
	BackendMongo    Backend = "mongodb"
	BackendPostgres Backend = "postgres"
)

type Config struct {
	URL          string
	DatabaseName string
	Retry        RetryConfig
}

// Gateway is the process-wide handle to the configured store. It is built by Connect before
// the HTTP listener starts and is read-only afterwards until Close.
type Gateway struct {
	mu       sync.RWMutex
	backend  Backend
	pool     *pgxpool.Pool
	client   *mongo.Client
	database *mongo.Database
	stop     chan struct{}
	closed   bool
}

// BackendFromURL picks the store from the connection string scheme.
func BackendFromURL(raw string) (Backend, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedBackend, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		return BackendMongo, nil
	case "postgres", "postgresql":
		return BackendPostgres, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedBackend, u.Scheme)
	}
}

// Connect opens the store named by cfg.URL and ensures its constraints exist.
func Connect(ctx context.Context, log *logger.Logger, cfg Config) (*Gateway, error) {
	backend, err := BackendFromURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultConnectRetryConfig
	}
	if cfg.DatabaseName == "" {
		cfg.DatabaseName = constants.DefaultDatabaseName
	}

	g := &Gateway{backend: backend, stop: make(chan struct{})}

	switch backend {
	case BackendMongo:
		client, err := newMongoClient(ctx, log, cfg.URL, cfg.Retry)
		if err != nil {
			return nil, err
		}
		database := client.Database(cfg.DatabaseName)
		if err := EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		g.client = client
		g.database = database
		log.Infof("connected to mongodb database %q", cfg.DatabaseName)

	case BackendPostgres:
		pool, err := newPool(ctx, log, cfg.URL, cfg.Retry)
		if err != nil {
			return nil, err
		}
		if err := RunMigrations(ctx, log, pool); err != nil {
			pool.Close()
			return nil, err
		}
		StartPoolMetrics(pool, constants.DBPoolMetricsInterval, g.stop)
		g.pool = pool
		log.Infof("connected to postgres database %q", pool.Config().ConnConfig.Database)
	}

	return g, nil
}

func (g *Gateway) Backend() Backend {
	if g == nil {
		return ""
	}
	return g.backend
}

func (g *Gateway) Postgres() (*pgxpool.Pool, error) {
	if g == nil {
		return nil, ErrNotConnected
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.closed || g.pool == nil {
		return nil, ErrNotConnected
	}
	return g.pool, nil
}

func (g *Gateway) Mongo() (*mongo.Database, error) {
	if g == nil {
		return nil, ErrNotConnected
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.closed || g.database == nil {
		return nil, ErrNotConnected
	}
	return g.database, nil
}

// Collection returns one of the fixed collections of the document store.
func (g *Gateway) Collection(name string) (*mongo.Collection, error) {
	database, err := g.Mongo()
	if err != nil {
		return nil, err
	}
	return database.Collection(name), nil
}

func (g *Gateway) Ping(ctx context.Context) error {
	switch g.Backend() {
	case BackendMongo:
		database, err := g.Mongo()
		if err != nil {
			return err
		}
		return database.Client().Ping(ctx, nil)
	case BackendPostgres:
		pool, err := g.Postgres()
		if err != nil {
			return err
		}
		return pool.Ping(ctx)
	default:
		return ErrNotConnected
	}
}

func (g *Gateway) Close(ctx context.Context) error {
	if g == nil {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true
	close(g.stop)

	if g.pool != nil {
		g.pool.Close()
	}
	if g.client != nil {
		if err := g.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("disconnect mongodb: %w", err)
		}
	}
	return nil
}
