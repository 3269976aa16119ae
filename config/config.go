package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// EnvProduction marks a production deployment
const EnvProduction = "production"

// Telegram update delivery modes
const (
	TelegramModePolling = "polling"
	TelegramModeWebhook = "webhook"
)

// Config holds all configuration for the attribution service
type Config struct {
	Service     ServiceConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Telegram    TelegramConfig
	Max         MaxConfig
	Auth        AuthConfig
	Attribution AttributionConfig
	Outbound    OutboundConfig
	Logging     LoggingConfig
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name            string
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// IsProduction reports whether the deployment is marked production
func (c *ServiceConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvProduction)
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// GetDSN returns database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisConfig holds link cache configuration. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LinkTTL  time.Duration
}

// KafkaConfig holds Kafka configuration. Empty Brokers disables event publishing.
type KafkaConfig struct {
	Brokers    []string
	EventTopic string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken      string
	Mode          string
	WebhookURL    string
	WebhookSecret string
}

// MaxConfig holds configuration of the secondary messenger platform (MAX)
type MaxConfig struct {
	BotToken      string
	APIBaseURL    string
	WebhookURL    string
	WebhookSecret string
	RateLimit     float64
}

// AuthConfig holds mini-app session verification configuration
type AuthConfig struct {
	MaxAge     time.Duration
	SkipVerify bool
}

// VerificationRelaxed reports whether signature checks are skipped.
// Skipping is never allowed in production.
func (c *AuthConfig) VerificationRelaxed(svc *ServiceConfig) bool {
	return c.SkipVerify && !svc.IsProduction()
}

// AttributionConfig holds matcher policy
type AttributionConfig struct {
	LookbackWindow time.Duration
	// ClockSkew extends the window past the join time
	ClockSkew      time.Duration
	EventQueueSize int
}

// OutboundConfig holds timeouts and retry budget for calls to platform APIs
type OutboundConfig struct {
	Timeout     time.Duration
	MaxAttempts int
	BaseBackoff time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config      *Config
	Service     *ServiceConfig
	Database    *DatabaseConfig
	Redis       *RedisConfig
	Kafka       *KafkaConfig
	Telegram    *TelegramConfig
	Max         *MaxConfig
	Auth        *AuthConfig
	Attribution *AttributionConfig
	Outbound    *OutboundConfig
	Logging     *LoggingConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:      cfg,
		Service:     &cfg.Service,
		Database:    &cfg.Database,
		Redis:       &cfg.Redis,
		Kafka:       &cfg.Kafka,
		Telegram:    &cfg.Telegram,
		Max:         &cfg.Max,
		Auth:        &cfg.Auth,
		Attribution: &cfg.Attribution,
		Outbound:    &cfg.Outbound,
		Logging:     &cfg.Logging,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	var errs []string
	duration := func(key, def string) time.Duration {
		d, err := time.ParseDuration(getEnv(key, def))
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid %s: %v", key, err))
		}
		return d
	}
	integer := func(key, def string) int {
		n, err := strconv.Atoi(getEnv(key, def))
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid %s: %v", key, err))
		}
		return n
	}

	rateLimit, err := strconv.ParseFloat(getEnv("MAX_API_RATE_LIMIT", "25"), 64)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MAX_API_RATE_LIMIT: %v", err))
	}

	cfg := &Config{
		Service: ServiceConfig{
			Name:            getEnv("SERVICE_NAME", "attribution-service"),
			Port:            getEnv("SERVICE_PORT", "8080"),
			Environment:     getEnv("APP_ENV", "development"),
			ShutdownTimeout: duration("SERVICE_SHUTDOWN_TIMEOUT", "10s"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DATABASE_HOST", "localhost"),
			Port:           getEnv("DATABASE_PORT", "5432"),
			User:           getEnv("DATABASE_USER", "attribution_user"),
			Password:       getEnv("DATABASE_PASSWORD", "attribution_pass"),
			DBName:         getEnv("DATABASE_NAME", "attribution_db"),
			SSLMode:        getEnv("DATABASE_SSLMODE", "disable"),
			MigrationsPath: getEnv("DATABASE_MIGRATIONS_PATH", "file://migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       integer("REDIS_DB", "0"),
			LinkTTL:  duration("REDIS_LINK_TTL", "1m"),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(getEnv("KAFKA_BROKERS", "")),
			EventTopic: getEnv("KAFKA_EVENT_TOPIC", "attribution.subscription_created"),
		},
		Telegram: TelegramConfig{
			BotToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
			Mode:          strings.ToLower(getEnv("TELEGRAM_MODE", TelegramModePolling)),
			WebhookURL:    getEnv("TELEGRAM_WEBHOOK_URL", ""),
			WebhookSecret: getEnv("TELEGRAM_WEBHOOK_SECRET", ""),
		},
		Max: MaxConfig{
			BotToken:      getEnv("MAX_BOT_TOKEN", ""),
			APIBaseURL:    getEnv("MAX_API_BASE_URL", "https://platform-api.max.ru"),
			WebhookURL:    getEnv("MAX_WEBHOOK_URL", ""),
			WebhookSecret: getEnv("MAX_WEBHOOK_SECRET", ""),
			RateLimit:     rateLimit,
		},
		Auth: AuthConfig{
			MaxAge:     duration("AUTH_MAX_AGE", "1h"),
			SkipVerify: getEnv("AUTH_SKIP_VERIFY", "false") == "true",
		},
		Attribution: AttributionConfig{
			LookbackWindow: duration("ATTRIBUTION_LOOKBACK_WINDOW", "168h"),
			ClockSkew:      duration("ATTRIBUTION_CLOCK_SKEW", "2s"),
			EventQueueSize: integer("ATTRIBUTION_EVENT_QUEUE_SIZE", "1024"),
		},
		Outbound: OutboundConfig{
			Timeout:     duration("OUTBOUND_TIMEOUT", "5s"),
			MaxAttempts: integer("OUTBOUND_MAX_ATTEMPTS", "3"),
			BaseBackoff: duration("OUTBOUND_BASE_BACKOFF", "200ms"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DATABASE_HOST is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("DATABASE_NAME is required")
	}

	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	switch c.Telegram.Mode {
	case TelegramModePolling:
	case TelegramModeWebhook:
		if c.Telegram.WebhookURL == "" {
			return fmt.Errorf("TELEGRAM_WEBHOOK_URL is required in webhook mode")
		}
	default:
		return fmt.Errorf("TELEGRAM_MODE must be %q or %q", TelegramModePolling, TelegramModeWebhook)
	}

	if c.Service.IsProduction() {
		if c.Telegram.Mode == TelegramModeWebhook && c.Telegram.WebhookSecret == "" {
			return fmt.Errorf("TELEGRAM_WEBHOOK_SECRET is required in production webhook mode")
		}
		if c.Max.BotToken != "" && c.Max.WebhookSecret == "" {
			return fmt.Errorf("MAX_WEBHOOK_SECRET is required in production")
		}
	}

	if c.Attribution.LookbackWindow <= 0 {
		return fmt.Errorf("ATTRIBUTION_LOOKBACK_WINDOW must be positive")
	}

	if c.Attribution.ClockSkew < time.Second {
		return fmt.Errorf("ATTRIBUTION_CLOCK_SKEW must be at least 1s")
	}

	if c.Auth.MaxAge <= 0 {
		return fmt.Errorf("AUTH_MAX_AGE must be positive")
	}

	if c.Outbound.MaxAttempts < 1 {
		return fmt.Errorf("OUTBOUND_MAX_ATTEMPTS must be at least 1")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
