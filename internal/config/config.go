package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Kerhoff/floristbot/internal/models"
)

// Config holds all configuration for the application
type Config struct {
	TelegramToken     string
	AdminChatIDs      []int64
	DatabaseURL       string
	MigrationsPath    string
	LogLevel          string
	PrometheusPort    string
	Port              string
	NotifyInterval    time.Duration
	NotifyMinPriority models.ReminderPriority
	Location          *time.Location
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables
// take precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only
func FromEnv() (*Config, error) {
	cfg := &Config{
		TelegramToken:     os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		PrometheusPort:    getEnvOrDefault("PROMETHEUS_PORT", "9090"),
		Port:              getEnvOrDefault("PORT", "8080"),
		MigrationsPath:    getEnvOrDefault("MIGRATIONS_PATH", "migrations"),
		NotifyMinPriority: models.ReminderPriority(getEnvOrDefault("NOTIFY_MIN_PRIORITY", "high")),
	}

	// Required environment variables
	if cfg.DatabaseURL = os.Getenv("DATABASE_URL"); cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	interval, err := time.ParseDuration(getEnvOrDefault("NOTIFY_INTERVAL", "15m"))
	if err != nil || interval <= 0 {
		return nil, fmt.Errorf("NOTIFY_INTERVAL must be a positive duration")
	}
	cfg.NotifyInterval = interval

	if cfg.NotifyMinPriority.Rank() > models.ReminderPriorityLow.Rank() {
		return nil, fmt.Errorf("NOTIFY_MIN_PRIORITY %q is not a reminder priority", cfg.NotifyMinPriority)
	}

	cfg.Location, err = time.LoadLocation(getEnvOrDefault("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg.AdminChatIDs, err = parseChatIDs(os.Getenv("TELEGRAM_ADMIN_CHATS"))
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// TelegramEnabled reports whether the bot should be started
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

func parseChatIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_ADMIN_CHATS: %q is not a chat id", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
