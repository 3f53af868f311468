package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Replay backends accepted by ENTRY_REPLAY_BACKEND.
const (
	ReplayBackendMemory = "memory"
	ReplayBackendRedis  = "redis"
)

// EnvDevelopment is the only APP_ENV in which the built-in session secret is allowed.
const EnvDevelopment = "development"

// DevSessionSecret signs local sessions when AUTH_JWT_SECRET is unset in development.
const DevSessionSecret = "dev-secret"

var (
	// ErrEntrySecretMissing is returned when ENTRY_TOKEN_SECRET is unset.
	ErrEntrySecretMissing = errors.New("ENTRY_TOKEN_SECRET is required")
	// ErrSessionSecretMissing is returned when AUTH_JWT_SECRET is unset outside development.
	ErrSessionSecretMissing = errors.New("AUTH_JWT_SECRET is required")
	// ErrSessionSecretInsecure is returned when the development session secret is used elsewhere.
	ErrSessionSecretInsecure = errors.New("AUTH_JWT_SECRET must not use the development default outside development")
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Entry    EntryConfig
	Breaker  BreakerConfig
	Events   EventsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines how identity-provider sessions are verified.
type AuthConfig struct {
	JWTSecret         string
	SessionTTLMinutes int
}

// EntryConfig configures entry token issuance and replay protection.
type EntryConfig struct {
	TokenSecret     string
	TokenTTLSeconds int
	ReplayBackend   string
	ReplayKeyPrefix string
}

// BreakerConfig tunes circuit breakers around the store and shared replay guard.
type BreakerConfig struct {
	FailureThreshold int
	OpenSeconds      int
}

// EventsConfig holds the optional AMQP broker for entry events.
type EventsConfig struct {
	AMQPURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	appEnv := getEnv("APP_ENV", EnvDevelopment)
	sessionSecret := os.Getenv("AUTH_JWT_SECRET")
	if sessionSecret == "" && appEnv == EnvDevelopment {
		sessionSecret = DevSessionSecret
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "gym-entry-service"),
			Env:                   appEnv,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:         sessionSecret,
			SessionTTLMinutes: getEnvAsInt("AUTH_SESSION_TTL_MINUTES", 60),
		},
		Entry: EntryConfig{
			TokenSecret:     os.Getenv("ENTRY_TOKEN_SECRET"),
			TokenTTLSeconds: getEnvAsInt("ENTRY_TOKEN_TTL_SECONDS", 30),
			ReplayBackend:   strings.ToLower(getEnv("ENTRY_REPLAY_BACKEND", ReplayBackendMemory)),
			ReplayKeyPrefix: getEnv("ENTRY_REPLAY_KEY_PREFIX", "gym:entry:consumed:"),
		},
		Breaker: BreakerConfig{
			FailureThreshold: getEnvAsInt("BREAKER_FAILURE_THRESHOLD", 5),
			OpenSeconds:      getEnvAsInt("BREAKER_OPEN_SECONDS", 15),
		},
		Events: EventsConfig{
			AMQPURL: os.Getenv("EVENTS_AMQP_URL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service must not start with.
func (c *Config) Validate() error {
	if c.Entry.TokenSecret == "" {
		return ErrEntrySecretMissing
	}
	if c.Entry.TokenTTLSeconds <= 0 {
		return fmt.Errorf("invalid ENTRY_TOKEN_TTL_SECONDS: %d", c.Entry.TokenTTLSeconds)
	}
	switch c.Entry.ReplayBackend {
	case ReplayBackendMemory, ReplayBackendRedis:
	default:
		return fmt.Errorf("invalid ENTRY_REPLAY_BACKEND: %q", c.Entry.ReplayBackend)
	}
	if c.Auth.JWTSecret == "" {
		return ErrSessionSecretMissing
	}
	if c.Auth.JWTSecret == DevSessionSecret && c.App.Env != EnvDevelopment {
		return ErrSessionSecretInsecure
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the entry token validity window.
func (e EntryConfig) TokenTTL() time.Duration {
	return time.Duration(e.TokenTTLSeconds) * time.Second
}

// OpenTimeout returns how long a tripped breaker stays open.
func (b BreakerConfig) OpenTimeout() time.Duration {
	return time.Duration(b.OpenSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
