package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	orderingmemory "github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/memory"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/notify"
	orderingobs "github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/observability"
	orderingpostgres "github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/persistence/postgres"
	orderingsqlite "github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/persistence/sqlite"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/resilience"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
	"github.com/Apurer/go-order-bot/internal/platform/migrations"
	platformkafka "github.com/Apurer/go-order-bot/internal/platform/kafka"
	platformobservability "github.com/Apurer/go-order-bot/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-order-bot/internal/platform/postgres"
	platformsqlite "github.com/Apurer/go-order-bot/internal/platform/sqlite"
)

func noopClose() error { return nil }

// BuildLedger opens the order ledger selected by cfg.OrderStore. The
// returned close function releases its connections.
func BuildLedger(ctx context.Context, cfg Config, logger *slog.Logger) (ports.OrderLedger, func() error, error) {
	switch cfg.OrderStore {
	case StorePostgres:
		db, closeDB, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migrations.Run(db); err != nil {
			_ = closeDB()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		logger.Info("order ledger configured with postgres")
		return orderingpostgres.NewOrderLedger(db), closeDB, nil
	case StoreSQLite:
		db, err := platformsqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		ledger, err := orderingsqlite.NewOrderLedger(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info("order ledger configured with sqlite", slog.String("path", cfg.SQLitePath))
		return ledger, db.Close, nil
	default:
		logger.Warn("using in-memory order ledger, orders are lost on restart")
		return orderingmemory.NewOrderLedger(), noopClose, nil
	}
}

// BuildDirectNotifier fans out to every configured operator channel, each
// behind its own breaker and instrumentation. Without channels it returns
// the no-op notifier.
func BuildDirectNotifier(cfg Config, admin notify.MessageSender, instruments *platformobservability.Instruments) (ports.AdminNotifier, func() error, error) {
	logger := instruments.Logger
	obsOpts := []orderingobs.Option{
		orderingobs.WithLogger(logger),
		orderingobs.WithTracer(instruments.Tracer("internal.ordering.notify")),
		orderingobs.WithMeter(instruments.Meter("internal.ordering.notify")),
	}
	breaker := resilience.Settings{Logger: logger}

	var (
		fanout  notify.Fanout
		closers []func() error
	)
	if admin != nil && cfg.AdminChatID != 0 {
		telegram := resilience.NewNotifier("notify.telegram", notify.NewTelegram(admin, cfg.AdminChatID), breaker)
		fanout = append(fanout, orderingobs.NewNotifier(telegram, "telegram", obsOpts...))
	}
	if len(cfg.KafkaBrokers) > 0 {
		writer, err := platformkafka.NewWriter(cfg.KafkaTopic, cfg.KafkaBrokers...)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, writer.Close)
		kafka := resilience.NewNotifier("notify.kafka", notify.NewKafka(writer), breaker)
		fanout = append(fanout, orderingobs.NewNotifier(kafka, "kafka", obsOpts...))
	}
	closeAll := func() error {
		var err error
		for _, c := range closers {
			err = errors.Join(err, c())
		}
		return err
	}
	switch len(fanout) {
	case 0:
		logger.Warn("no admin notification channel configured")
		return ports.NoopNotifier, closeAll, nil
	case 1:
		return fanout[0], closeAll, nil
	}
	return fanout, closeAll, nil
}
