package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Payment  PaymentConfig
	Tracker  TrackerConfig
	Mail     MailConfig
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

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// PaymentConfig holds payment gateway credentials and pricing fallbacks.
// APIKey and WebhookSecret are secrets and are read from the environment only.
type PaymentConfig struct {
	APIKey                string
	WebhookSecret         string
	APIBaseURL            string
	TimeoutSeconds        int
	StreamingDefaultCents int64
	VIPDefaultCents       int64
	Currency              string
}

// TrackerConfig holds issue tracker credentials and endpoints.
type TrackerConfig struct {
	Token          string
	WebhookSecret  string
	APIBaseURL     string
	DefaultRepo    string
	TimeoutSeconds int
}

// MailConfig holds transactional email provider settings.
type MailConfig struct {
	APIKey         string
	APIBaseURL     string
	FromAddress    string
	TimeoutSeconds int
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
			Name:                  getEnv("APP_NAME", "awards-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
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
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Payment: PaymentConfig{
			APIKey:                os.Getenv("PAYMENT_API_KEY"),
			WebhookSecret:         os.Getenv("PAYMENT_WEBHOOK_SECRET"),
			APIBaseURL:            getEnv("PAYMENT_API_BASE_URL", "https://api.stripe.com"),
			TimeoutSeconds:        getEnvAsInt("PAYMENT_TIMEOUT_SECONDS", 15),
			StreamingDefaultCents: int64(getEnvAsInt("PAYMENT_STREAMING_PRICE_CENTS", 2900)),
			VIPDefaultCents:       int64(getEnvAsInt("PAYMENT_VIP_PRICE_CENTS", 15000)),
			Currency:              getEnv("PAYMENT_CURRENCY", "usd"),
		},
		Tracker: TrackerConfig{
			Token:          os.Getenv("TRACKER_API_TOKEN"),
			WebhookSecret:  os.Getenv("TRACKER_WEBHOOK_SECRET"),
			APIBaseURL:     getEnv("TRACKER_API_BASE_URL", "https://api.github.com"),
			DefaultRepo:    getEnv("TRACKER_DEFAULT_REPO", ""),
			TimeoutSeconds: getEnvAsInt("TRACKER_TIMEOUT_SECONDS", 15),
		},
		Mail: MailConfig{
			APIKey:         os.Getenv("MAIL_API_KEY"),
			APIBaseURL:     getEnv("MAIL_API_BASE_URL", "https://api.resend.com"),
			FromAddress:    getEnv("MAIL_FROM_ADDRESS", "noreply@example.com"),
			TimeoutSeconds: getEnvAsInt("MAIL_TIMEOUT_SECONDS", 15),
		},
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
