// Package bot wires the ordering bot process: telegram pollers for
// customers and operators plus the HTTP API, sharing one session engine.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"
	tele "gopkg.in/telebot.v4"

	catalogfile "github.com/Apurer/go-order-bot/internal/domains/catalog/adapters/file"
	orderinghttp "github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/http"
	orderingmemory "github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/memory"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/notify"
	orderingobs "github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/observability"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/resilience"
	orderingtelegram "github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/telegram"
	orderingworkflows "github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/workflows"
	orderingapp "github.com/Apurer/go-order-bot/internal/domains/ordering/application"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
	reportinghttp "github.com/Apurer/go-order-bot/internal/domains/reporting/adapters/http"
	reportingtelegram "github.com/Apurer/go-order-bot/internal/domains/reporting/adapters/telegram"
	reportingapp "github.com/Apurer/go-order-bot/internal/domains/reporting/application"
	platformobservability "github.com/Apurer/go-order-bot/internal/platform/observability"
	platformtelegram "github.com/Apurer/go-order-bot/internal/platform/telegram"
	platformtemporal "github.com/Apurer/go-order-bot/internal/platform/temporal"
)

const (
	ServiceName     = "order-bot"
	shutdownTimeout = 5 * time.Second
)

// Run boots the bot with observability, ledger, notifiers and transports
// wired, and blocks until ctx is cancelled or a transport fails.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName: ServiceName,
		Environment: cfg.Environment,
		LogLevel:    cfg.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	catalog, err := catalogfile.Load(cfg.CatalogFile)
	if err != nil {
		return err
	}
	ledger, closeLedger, err := BuildLedger(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLedger()
	guarded := resilience.NewLedger(ledger, resilience.Settings{Logger: logger})

	customerBot, adminBot, err := buildBots(cfg, logger)
	if err != nil {
		return err
	}

	notifier, closeNotifier, err := buildNotifier(cfg, adminBot, instruments)
	if err != nil {
		return err
	}
	defer closeNotifier()

	sessions := orderingmemory.NewSessionStore()
	engine := orderingapp.NewService(catalog, sessions, guarded,
		orderingapp.WithNotifier(notifier),
		orderingapp.WithLogger(logger),
		orderingapp.WithTimeouts(cfg.PersistTimeout, cfg.NotifyTimeout),
		orderingapp.WithProfileReset(cfg.ResetProfileAfterOrder),
	)
	service := orderingobs.New(engine,
		orderingobs.WithLogger(logger),
		orderingobs.WithTracer(instruments.Tracer("internal.ordering.application")),
		orderingobs.WithMeter(instruments.Meter("internal.ordering.application")),
	)
	conversation := orderingapp.NewConversation(service)
	reports := reportingapp.NewService(guarded)

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(ServiceName))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": sessions.Len()})
	})
	orderinghttp.NewOrderingAPI(conversation, service).Register(router)
	reportinghttp.NewReportingAPI(reports).Register(router)

	// handlers are registered before any poller starts
	g, gctx := errgroup.WithContext(ctx)
	customer := orderingtelegram.NewCustomer(conversation, logger)
	if customerBot != nil {
		customer.Register(gctx, customerBot)
	}
	if adminBot != nil && cfg.AdminChatID != 0 {
		admin := reportingtelegram.NewAdmin(reports, cfg.AdminChatID, logger)
		if adminBot == customerBot {
			admin.RegisterReports(gctx, adminBot)
		} else {
			admin.Register(gctx, adminBot)
		}
	}
	if customerBot != nil {
		runBot(gctx, g, customerBot, "customer", logger)
	}
	if adminBot != nil && adminBot != customerBot {
		runBot(gctx, g, adminBot, "admin", logger)
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	g.Go(func() error {
		logger.Info("order bot API listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	customer.Wait()
	logger.Info("order bot stopped")
	return err
}

// buildBots creates the customer bot and, when operators use a different
// token, a separate admin bot. Without a customer token only HTTP runs.
func buildBots(cfg Config, logger *slog.Logger) (customer, admin *tele.Bot, err error) {
	if cfg.TelegramToken != "" {
		customer, err = platformtelegram.NewBot(cfg.TelegramToken, cfg.PollTimeout, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("customer bot: %w", err)
		}
	} else {
		logger.Warn("TELEGRAM_TOKEN not set, serving HTTP events only")
	}
	switch {
	case cfg.AdminBotToken == "":
		return customer, nil, nil
	case cfg.SharedAdminBot():
		return customer, customer, nil
	}
	admin, err = platformtelegram.NewBot(cfg.AdminBotToken, cfg.PollTimeout, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("admin bot: %w", err)
	}
	return customer, admin, nil
}

// buildNotifier prefers durable delivery through Temporal and falls back to
// notifying the channels directly when Temporal is disabled or unreachable.
func buildNotifier(cfg Config, adminBot *tele.Bot, instruments *platformobservability.Instruments) (ports.AdminNotifier, func() error, error) {
	logger := instruments.Logger
	if !cfg.TemporalDisabled {
		c, err := platformtemporal.Dial(platformtemporal.Options{
			Address:   cfg.TemporalAddress,
			Namespace: cfg.TemporalNamespace,
			Logger:    logger,
			Tracer:    instruments.Tracer("temporal-client"),
		})
		if err == nil {
			logger.Info("Temporal order notifications enabled", slog.String("namespace", cfg.TemporalNamespace))
			durable := orderingobs.NewNotifier(orderingworkflows.NewTemporalNotifier(c), "temporal",
				orderingobs.WithLogger(logger),
				orderingobs.WithTracer(instruments.Tracer("internal.ordering.notify")),
				orderingobs.WithMeter(instruments.Meter("internal.ordering.notify")),
			)
			return durable, func() error { c.Close(); return nil }, nil
		}
		logger.Warn("Temporal unavailable, notifying operators directly", slog.String("error", err.Error()))
	}
	var sender notify.MessageSender
	if adminBot != nil {
		sender = adminBot
	}
	return BuildDirectNotifier(cfg, sender, instruments)
}

func runBot(ctx context.Context, g *errgroup.Group, b *tele.Bot, role string, logger *slog.Logger) {
	g.Go(func() error {
		logger.Info("telegram bot polling", slog.String("bot.role", role), slog.String("bot.username", b.Me.Username))
		b.Start()
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		b.Stop()
		return nil
	})
}
