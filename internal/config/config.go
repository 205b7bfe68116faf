package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Webhook      WebhookConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSOrigins           string
}

// PostgresConfig holds DB connection values. An empty DSN selects the in-memory store.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string
	AccessTokenTTLMinutes   int
	BcryptCost              int
	PasswordResetTTLMinutes int
	// ExposeResetToken returns reset tokens in the API response. Development only.
	ExposeResetToken bool
}

// WebhookConfig guards the inbound webhook endpoint.
type WebhookConfig struct {
	Secret           string
	RatePerSecond    int
	Burst            int
	DedupeTTLMinutes int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "offer-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3001"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 15),
			CORSOrigins:           getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:               getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes:   getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:              getEnvAsInt("AUTH_BCRYPT_COST", 12),
			PasswordResetTTLMinutes: getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 30),
			ExposeResetToken:        getEnvAsBool("AUTH_PASSWORD_RESET_EXPOSE_TOKEN", false),
		},
		Webhook: WebhookConfig{
			Secret:           os.Getenv("WEBHOOK_SECRET"),
			RatePerSecond:    getEnvAsInt("WEBHOOK_RATE_PER_SECOND", 5),
			Burst:            getEnvAsInt("WEBHOOK_RATE_BURST", 20),
			DedupeTTLMinutes: getEnvAsInt("WEBHOOK_DEDUPE_TTL_MINUTES", 24*60),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	if cfg.App.Env == "production" && cfg.Auth.JWTSecret == "dev-secret" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET must be set in production")
	}
	if cfg.App.Env == "production" && cfg.Auth.ExposeResetToken {
		return nil, fmt.Errorf("AUTH_PASSWORD_RESET_EXPOSE_TOKEN cannot be enabled in production")
	}
	return cfg, nil
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

// PasswordResetTTL returns how long a reset token stays redeemable.
func (a AuthConfig) PasswordResetTTL() time.Duration {
	if a.PasswordResetTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(a.PasswordResetTTLMinutes) * time.Minute
}

// DedupeTTL returns how long a webhook delivery id is remembered.
func (w WebhookConfig) DedupeTTL() time.Duration {
	if w.DedupeTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(w.DedupeTTLMinutes) * time.Minute
}

// VerificationEnabled reports whether inbound webhooks must carry the shared secret.
func (w WebhookConfig) VerificationEnabled() bool {
	return strings.TrimSpace(w.Secret) != ""
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
