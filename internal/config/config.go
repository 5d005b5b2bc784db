package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	Port       string
	LogLevel   string
	CORSOrigin string

	DBDriver string // postgres or sqlite
	DBConn   string

	JWTSecret     string
	EncryptionKey string // hex-encoded AES key

	PlaidClientID string
	PlaidSecret   string
	PlaidEnv      string
	PlaidCacheTTL time.Duration

	AnthropicAPIKey string
	AnthropicModel  string

	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
	SenderEmail    string
	DigestSchedule string
}

// NewConfig loads configuration from the environment, reading .env first when present
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnv("PORT", "8000"),
		LogLevel:   getEnv("LOG_LEVEL", "INFO"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),

		DBDriver: getEnv("DB_DRIVER", "postgres"),
		DBConn:   getEnv("DB_CONN", "host=localhost port=5432 user=spendsense password=spendsense dbname=spendsense sslmode=disable"),

		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		EncryptionKey: getEnv("ENCRYPTION_KEY", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6"),

		PlaidClientID: getEnv("PLAID_CLIENT_ID", ""),
		PlaidSecret:   getEnv("PLAID_SECRET", ""),
		PlaidEnv:      getEnv("PLAID_ENV", "sandbox"),

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),

		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SenderEmail:    getEnv("SENDER_EMAIL", "SpendSense <noreply@spendsense.local>"),
		DigestSchedule: getEnv("DIGEST_SCHEDULE", "0 8 * * 1"),
	}

	ttl, err := time.ParseDuration(getEnv("PLAID_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("PLAID_CACHE_TTL: %w", err)
	}
	cfg.PlaidCacheTTL = ttl

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	if c.DBConn == "" {
		return fmt.Errorf("DB_CONN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.EncryptionKey == "" {
		return fmt.Errorf("ENCRYPTION_KEY is required")
	}
	key, err := hex.DecodeString(c.EncryptionKey)
	if err != nil {
		return fmt.Errorf("ENCRYPTION_KEY must be hex: %w", err)
	}
	if n := len(key); n != 16 && n != 24 && n != 32 {
		return fmt.Errorf("ENCRYPTION_KEY must decode to 16, 24, or 32 bytes, got %d", n)
	}
	if c.PlaidCacheTTL < 0 {
		return fmt.Errorf("PLAID_CACHE_TTL must not be negative")
	}
	if c.DigestEnabled() {
		if _, err := cron.ParseStandard(c.DigestSchedule); err != nil {
			return fmt.Errorf("DIGEST_SCHEDULE: %w", err)
		}
	}
	return nil
}

// PlaidEnabled reports whether Plaid credentials are configured
func (c *Config) PlaidEnabled() bool {
	return c.PlaidClientID != "" && c.PlaidSecret != ""
}

// AIEnabled reports whether an Anthropic key is configured
func (c *Config) AIEnabled() bool {
	return c.AnthropicAPIKey != ""
}

// DigestEnabled reports whether goal digest emails should be sent
func (c *Config) DigestEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
