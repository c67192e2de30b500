package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
)

var configKeys = []string{
	"PORT", "TELEGRAM_TOKEN", "TELEGRAM_POLL_TIMEOUT", "ADMIN_CHAT_ID", "ADMIN_BOT_TOKEN",
	"ORDER_STORE", "POSTGRES_DSN", "SQLITE_PATH", "KAFKA_BROKERS", "KAFKA_TOPIC",
	"TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED", "PERSIST_TIMEOUT",
	"NOTIFY_TIMEOUT", "RESET_PROFILE_AFTER_ORDER", "CATALOG_FILE", "ENVIRONMENT", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, StoreMemory, cfg.OrderStore)
	require.Equal(t, "orders.db", cfg.SQLitePath)
	require.Equal(t, "orders.placed", cfg.KafkaTopic)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, client.DefaultHostPort, cfg.TemporalAddress)
	require.Equal(t, 10*time.Second, cfg.PollTimeout)
	require.Equal(t, 10*time.Second, cfg.PersistTimeout)
	require.Equal(t, 5*time.Second, cfg.NotifyTimeout)
	require.False(t, cfg.ResetProfileAfterOrder)
	require.Equal(t, "info", cfg.LogLevel)
	require.True(t, cfg.SharedAdminBot())
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "customer")
	t.Setenv("ADMIN_BOT_TOKEN", "admin")
	t.Setenv("ADMIN_CHAT_ID", "-100123")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/orders")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("PERSIST_TIMEOUT", "3s")
	t.Setenv("RESET_PROFILE_AFTER_ORDER", "yes")
	t.Setenv("TEMPORAL_DISABLED", "1")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, StorePostgres, cfg.OrderStore)
	require.Equal(t, int64(-100123), cfg.AdminChatID)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 3*time.Second, cfg.PersistTimeout)
	require.True(t, cfg.ResetProfileAfterOrder)
	require.True(t, cfg.TemporalDisabled)
	require.False(t, cfg.SharedAdminBot())
}

func TestLoadConfig_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown store":         {"ORDER_STORE": "sheets"},
		"postgres without dsn":  {"ORDER_STORE": "postgres"},
		"bad admin chat":        {"ADMIN_CHAT_ID": "ops"},
		"bad duration":          {"NOTIFY_TIMEOUT": "soon"},
		"non positive duration": {"PERSIST_TIMEOUT": "0s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}
