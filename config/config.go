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

// Config holds all configuration for the filegate bot
type Config struct {
	Telegram TelegramConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Logging  LoggingConfig
	Gate     GateConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// KafkaConfig holds audit event stream configuration.
// An empty broker list disables the producer.
type KafkaConfig struct {
	Brokers []string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// GateConfig holds domain configuration for the delivery engine
type GateConfig struct {
	// OwnerID is the privileged operator; implicit admin, never revocable
	OwnerID int64

	// RequestChannelID receives join requests for admin approval (0 = disabled)
	RequestChannelID int64

	// AuditChannelID receives upload notices (0 = disabled)
	AuditChannelID int64

	// ProtectContent forwards Telegram's protect_content flag on media sends
	ProtectContent bool

	// QuotaTimezone is the day-boundary zone for quota accounting
	QuotaTimezone string

	// DeleteDelay is the self-destruction delay for delivered messages
	DeleteDelay time.Duration

	// BroadcastPace is the fixed delay inserted after every fan-out dispatch
	BroadcastPace time.Duration

	// SessionTTL bounds idle upload sessions
	SessionTTL time.Duration

	// Default gate channel seeded at startup
	DefaultGateLink  string
	DefaultGateChat  string
	DefaultGateLabel string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Telegram *TelegramConfig
	Database *DatabaseConfig
	Kafka    *KafkaConfig
	Logging  *LoggingConfig
	Gate     *GateConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Telegram: &cfg.Telegram,
		Database: &cfg.Database,
		Kafka:    &cfg.Kafka,
		Logging:  &cfg.Logging,
		Gate:     &cfg.Gate,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: getEnv("BOT_TOKEN", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DATABASE_HOST", "localhost"),
			Port:     getEnv("DATABASE_PORT", "5432"),
			User:     getEnv("DATABASE_USER", "postgres"),
			Password: getEnv("DATABASE_PASSWORD", ""),
			Name:     getEnv("DATABASE_NAME", "filegate"),
			SSLMode:  getEnv("DATABASE_SSLMODE", "require"),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(getEnv("KAFKA_BROKERS", "")),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Gate: GateConfig{
			OwnerID:          getEnvInt64("OWNER_ID", 0),
			RequestChannelID: getEnvInt64("REQUEST_CHANNEL_ID", 0),
			AuditChannelID:   getEnvInt64("AUDIT_CHANNEL_ID", 0),
			ProtectContent:   getEnvBool("PROTECT_CONTENT", true),
			QuotaTimezone:    getEnv("QUOTA_TIMEZONE", "UTC"),
			DeleteDelay:      getEnvDuration("DELETE_DELAY", 10*time.Minute),
			BroadcastPace:    getEnvDuration("BROADCAST_PACE", 30*time.Millisecond),
			SessionTTL:       getEnvDuration("SESSION_TTL", 30*time.Minute),
			DefaultGateLink:  getEnv("DEFAULT_GATE_LINK", ""),
			DefaultGateChat:  getEnv("DEFAULT_GATE_CHAT_ID", ""),
			DefaultGateLabel: getEnv("DEFAULT_GATE_LABEL", "✅ Join channel"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	if c.Gate.OwnerID == 0 {
		return fmt.Errorf("OWNER_ID is required")
	}

	if _, err := time.LoadLocation(c.Gate.QuotaTimezone); err != nil {
		return fmt.Errorf("QUOTA_TIMEZONE is invalid: %w", err)
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

// getEnvInt64 gets an int64 environment variable with default value
func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvBool gets a boolean environment variable with default value
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value != "0" && value != "false" && value != "no"
}

// getEnvDuration gets a duration environment variable with default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func splitNonEmpty(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
