// Package telegram answers operator report commands in the admin chat.
package telegram

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/Apurer/go-order-bot/internal/domains/reporting/domain"
	"github.com/Apurer/go-order-bot/internal/domains/reporting/ports"
	"github.com/Apurer/go-order-bot/internal/platform/telegram"
)

const (
	startText = "Admin bot is running.\n" +
		"Commands:\n" +
		"/orders - all orders\n" +
		"/recent [n] - the latest orders\n" +
		"/stats - order statistics"
	deniedText = "Access denied."
)

// Admin serves reports to a single operator chat.
type Admin struct {
	reports ports.Service
	chatID  int64
	logger  *slog.Logger
}

func NewAdmin(reports ports.Service, chatID int64, logger *slog.Logger) *Admin {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Admin{reports: reports, chatID: chatID, logger: logger}
}

// Register mounts /start and the report commands on a dedicated admin bot.
func (a *Admin) Register(ctx context.Context, r telegram.Router) {
	r.Handle("/start", a.guard(func(c tele.Context) error { return c.Send(startText) }))
	a.RegisterReports(ctx, r)
}

// RegisterReports mounts only the report commands, leaving /start to the
// customer conversation when both share one bot. The long spellings are
// kept as aliases.
func (a *Admin) RegisterReports(ctx context.Context, r telegram.Router) {
	orders := a.guard(a.orders(ctx))
	recent := a.guard(a.recent(ctx))
	r.Handle("/orders", orders)
	r.Handle("/get_orders", orders)
	r.Handle("/recent", recent)
	r.Handle("/recent_orders", recent)
	r.Handle("/stats", a.guard(a.stats(ctx)))
}

func (a *Admin) guard(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Chat() == nil || c.Chat().ID != a.chatID {
			return c.Send(deniedText)
		}
		return next(c)
	}
}

func (a *Admin) orders(ctx context.Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		orders, err := a.reports.All(ctx)
		if err != nil {
			return a.fail(ctx, c, err)
		}
		return send(c, domain.RenderAll(orders))
	}
}

func (a *Admin) recent(ctx context.Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		n := 0
		if args := c.Args(); len(args) > 0 {
			// unparsable counts fall back to the default
			n, _ = strconv.Atoi(args[0])
		}
		orders, err := a.reports.Recent(ctx, n)
		if err != nil {
			return a.fail(ctx, c, err)
		}
		return send(c, domain.RenderRecent(orders))
	}
}

func (a *Admin) stats(ctx context.Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		stats, err := a.reports.Stats(ctx)
		if err != nil {
			return a.fail(ctx, c, err)
		}
		return send(c, domain.RenderStats(stats))
	}
}

func (a *Admin) fail(ctx context.Context, c tele.Context, err error) error {
	a.logger.LogAttrs(ctx, slog.LevelError, "failed to build report", slog.String("error", err.Error()))
	return c.Send("Error: " + err.Error())
}

func send(c tele.Context, text string) error {
	for _, chunk := range telegram.Split(text, telegram.MaxMessageRunes) {
		if err := c.Send(chunk); err != nil {
			return err
		}
	}
	return nil
}
