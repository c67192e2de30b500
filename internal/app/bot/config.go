package bot

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	platformkafka "github.com/Apurer/go-order-bot/internal/platform/kafka"
	platformtelegram "github.com/Apurer/go-order-bot/internal/platform/telegram"
)

// StoreKind selects the order ledger backend.
type StoreKind string

const (
	StoreMemory   StoreKind = "memory"
	StorePostgres StoreKind = "postgres"
	StoreSQLite   StoreKind = "sqlite"
)

// Config carries environment-driven settings shared by the bot, worker and
// report processes.
type Config struct {
	Port string

	TelegramToken string
	PollTimeout   time.Duration
	AdminChatID   int64
	AdminBotToken string

	OrderStore  StoreKind
	PostgresDSN string
	SQLitePath  string

	KafkaBrokers []string
	KafkaTopic   string

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	PersistTimeout         time.Duration
	NotifyTimeout          time.Duration
	ResetProfileAfterOrder bool

	CatalogFile string
	Environment string
	LogLevel    string
}

// SharedAdminBot reports whether admin commands are served by the customer bot.
func (c Config) SharedAdminBot() bool {
	return c.AdminBotToken == c.TelegramToken
}

// LoadConfig reads environment variables, applies defaults, and validates them.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		TelegramToken:     strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		SQLitePath:        envDefault("SQLITE_PATH", "orders.db"),
		KafkaBrokers:      platformkafka.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        envDefault("KAFKA_TOPIC", "orders.placed"),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		CatalogFile:       strings.TrimSpace(os.Getenv("CATALOG_FILE")),
		Environment:       envDefault("ENVIRONMENT", "local"),
		LogLevel:          envDefault("LOG_LEVEL", "info"),

		ResetProfileAfterOrder: isTruthy(os.Getenv("RESET_PROFILE_AFTER_ORDER")),
	}
	cfg.AdminBotToken = envDefault("ADMIN_BOT_TOKEN", cfg.TelegramToken)

	var err error
	if cfg.PollTimeout, err = envDuration("TELEGRAM_POLL_TIMEOUT", platformtelegram.DefaultPollTimeout); err != nil {
		return Config{}, err
	}
	if cfg.PersistTimeout, err = envDuration("PERSIST_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.NotifyTimeout, err = envDuration("NOTIFY_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if raw := strings.TrimSpace(os.Getenv("ADMIN_CHAT_ID")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("ADMIN_CHAT_ID must be an integer chat id")
		}
		cfg.AdminChatID = id
	}

	store := strings.ToLower(strings.TrimSpace(os.Getenv("ORDER_STORE")))
	switch {
	case store == "" && cfg.PostgresDSN != "":
		cfg.OrderStore = StorePostgres
	case store == "":
		cfg.OrderStore = StoreMemory
	default:
		cfg.OrderStore = StoreKind(store)
	}
	switch cfg.OrderStore {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("ORDER_STORE=postgres requires POSTGRES_DSN")
		}
	default:
		return Config{}, fmt.Errorf("ORDER_STORE must be one of memory, postgres, sqlite (got %q)", store)
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 10s", key)
	}
	return d, nil
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
