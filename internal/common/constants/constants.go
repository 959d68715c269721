package constants

import "time"

const (
	PasswordMinLength  = 6
	JWTSecretMinLength = 32

	DefaultMaxRequestSize = 1 << 20

	DefaultHTTPPort     = "3000"
	DefaultDatabaseName = "noteapp"
	DefaultStaticDir    = "public"
	DefaultTokenTTL     = 7 * 24 * time.Hour
	DefaultBcryptCost   = 12

	DefaultRequestTimeout = 5 * time.Second

	UsersCollection = "users"
	NotesCollection = "notes"

	WelcomeNoteTitle   = "Shared with you"
	WelcomeNoteContent = "This note was shared with you automatically by the owner (nickgeorgouses), try sharing a note with them too!"
	WelcomeNoteSharer  = "nickgeorgouses"

	RootGreeting = "Hello, this is the Note App!"

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBConnectTimeout      = 5 * time.Second
	DBConnectMaxAttempts  = 10
	DBConnectRetryDelay   = time.Second
	DBConnectMaxDelay     = 5 * time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second
	ServerWriteSlack        = 5 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second
	StartupTimeout  = 2 * time.Minute

	RateLimitCleanupInterval = 5 * time.Minute

	RateLimitLoginRequestsPerSecond    = 1.0
	RateLimitLoginBurst                = 10
	RateLimitRegisterRequestsPerSecond = 0.5
	RateLimitRegisterBurst             = 5
	RateLimitGeneralRequestsPerSecond  = 20.0
	RateLimitGeneralBurst              = 60

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
