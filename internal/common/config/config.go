package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/nickgeorgouses/note-app/internal/common/constants"
	commonerrors "github.com/nickgeorgouses/note-app/internal/common/errors"
)

type NotesConfig struct {
	HTTPPort          string        `env:"PORT" envDefault:"3000"`
	DatabaseURL       string        `env:"DATABASE_URL"`
	MongoURI          string        `env:"MONGODB_URI"`
	DatabaseName      string        `env:"DATABASE_NAME" envDefault:"noteapp"`
	JWTSecret         string        `env:"JWT_SECRET"`
	TokenTTL          time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	BcryptCost        int           `env:"BCRYPT_COST" envDefault:"12"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
	StaticDir         string        `env:"STATIC_DIR" envDefault:"public"`
	LogDir            string        `env:"LOG_DIR"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	RateLimitEnabled  bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	TrustProxyHeaders bool          `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
}

// StoreURL is DATABASE_URL, or MONGODB_URI when the former is unset.
func (c NotesConfig) StoreURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.MongoURI
}

func LoadNotesConfig() (NotesConfig, error) {
	var cfg NotesConfig
	if err := env.Parse(&cfg); err != nil {
		return NotesConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DatabaseName == "" {
		cfg.DatabaseName = constants.DefaultDatabaseName
	}
	if err := cfg.validate(); err != nil {
		return NotesConfig{}, err
	}
	return cfg, nil
}

func (c NotesConfig) validate() error {
	if c.JWTSecret == "" {
		return commonerrors.ErrMissingRequiredEnv.WithCause(errors.New("JWT_SECRET"))
	}
	if err := validateJWTSecret(c.JWTSecret); err != nil {
		return err
	}
	if c.StoreURL() == "" {
		return commonerrors.ErrMissingRequiredEnv.WithCause(errors.New("DATABASE_URL or MONGODB_URI"))
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	return nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return commonerrors.ErrInvalidJWTSecret.WithCause(fmt.Errorf("got %d bytes", len(secret)))
	}
	return nil
}
