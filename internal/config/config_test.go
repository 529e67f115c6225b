package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/floristbot/internal/models"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/florist?sslmode=disable")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("TELEGRAM_ADMIN_CHATS", "")
	t.Setenv("NOTIFY_INTERVAL", "")
	t.Setenv("NOTIFY_MIN_PRIORITY", "")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "9090", cfg.PrometheusPort)
	require.Equal(t, "migrations", cfg.MigrationsPath)
	require.Equal(t, 15*time.Minute, cfg.NotifyInterval)
	require.Equal(t, models.ReminderPriorityHigh, cfg.NotifyMinPriority)
	require.Equal(t, time.UTC, cfg.Location)
	require.False(t, cfg.TelegramEnabled())
	require.Empty(t, cfg.AdminChatIDs)
}

func TestFromEnvParsesValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_ADMIN_CHATS", "42, -1001234")
	t.Setenv("NOTIFY_INTERVAL", "1h")
	t.Setenv("NOTIFY_MIN_PRIORITY", "urgent")
	t.Setenv("TIMEZONE", "Europe/Paris")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.True(t, cfg.TelegramEnabled())
	require.Equal(t, []int64{42, -1001234}, cfg.AdminChatIDs)
	require.Equal(t, time.Hour, cfg.NotifyInterval)
	require.Equal(t, models.ReminderPriorityUrgent, cfg.NotifyMinPriority)
	require.Equal(t, "Europe/Paris", cfg.Location.String())
}

func TestFromEnvErrors(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("NOTIFY_INTERVAL", "")
	t.Setenv("NOTIFY_MIN_PRIORITY", "")
	t.Setenv("TELEGRAM_ADMIN_CHATS", "")

	t.Setenv("DATABASE_URL", "")
	_, err := FromEnv()
	require.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://db")
	t.Setenv("NOTIFY_INTERVAL", "soon")
	_, err = FromEnv()
	require.ErrorContains(t, err, "NOTIFY_INTERVAL")

	t.Setenv("NOTIFY_INTERVAL", "5m")
	t.Setenv("NOTIFY_MIN_PRIORITY", "critical")
	_, err = FromEnv()
	require.ErrorContains(t, err, "NOTIFY_MIN_PRIORITY")

	t.Setenv("NOTIFY_MIN_PRIORITY", "low")
	t.Setenv("TELEGRAM_ADMIN_CHATS", "abc")
	_, err = FromEnv()
	require.ErrorContains(t, err, "TELEGRAM_ADMIN_CHATS")
}
