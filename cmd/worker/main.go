package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-order-bot/internal/app/bot"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/notify"
	orderactivities "github.com/Apurer/go-order-bot/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-order-bot/internal/durable/temporal/workflows/orders"
	platformobservability "github.com/Apurer/go-order-bot/internal/platform/observability"
	platformtelegram "github.com/Apurer/go-order-bot/internal/platform/telegram"
	platformtemporal "github.com/Apurer/go-order-bot/internal/platform/temporal"
)

func main() {
	ctx := context.Background()
	cfg, err := bot.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName: "order-bot-worker",
		Environment: cfg.Environment,
		LogLevel:    cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	// the worker only sends; it never polls for updates
	var sender notify.MessageSender
	if cfg.AdminBotToken != "" {
		adminBot, err := platformtelegram.NewBot(cfg.AdminBotToken, cfg.PollTimeout, logger)
		if err != nil {
			logger.Error("failed to create admin bot", slog.String("error", err.Error()))
			os.Exit(1)
		}
		sender = adminBot
	}
	notifier, closeNotifier, err := bot.BuildDirectNotifier(cfg, sender, instruments)
	if err != nil {
		logger.Error("failed to build admin notifier", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeNotifier()
	activities := orderactivities.NewActivities(notifier)

	temporalClient, err := platformtemporal.Dial(platformtemporal.Options{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
		Tracer:    instruments.Tracer("temporal-worker"),
	})
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderNotificationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderNotificationWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderNotificationWorkflowName})
	w.RegisterActivityWithOptions(activities.NotifyAdmin, activity.RegisterOptions{Name: orderactivities.NotifyAdminActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderNotificationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
