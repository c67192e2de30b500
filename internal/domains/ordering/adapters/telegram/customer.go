// Package telegram feeds customer chat messages from a telebot long poller
// into the ordering conversation.
package telegram

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/application"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/platform/telegram"
)

const failureText = "Something went wrong. Please try again in a moment."

// EventHandler answers one inbound chat event.
type EventHandler interface {
	Handle(ctx context.Context, ev application.Event) (application.Reply, error)
}

// Customer relays every customer text message to the conversation. The
// poller hands updates over in arrival order; each user's messages are then
// answered strictly in that order, without holding up other users.
type Customer struct {
	events EventHandler
	logger *slog.Logger
	queue  *dispatcher
}

func NewCustomer(events EventHandler, logger *slog.Logger) *Customer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Customer{events: events, logger: logger, queue: newDispatcher()}
}

// Register routes all text, commands included, through ctx-bound handling.
// telebot falls back to OnText for commands without their own handler.
func (h *Customer) Register(ctx context.Context, r telegram.Router) {
	r.Handle(tele.OnText, h.handler(ctx))
}

// Wait blocks until every accepted message has been answered.
func (h *Customer) Wait() {
	h.queue.wait()
}

func (h *Customer) handler(ctx context.Context) tele.HandlerFunc {
	return func(c tele.Context) error {
		user := c.Sender()
		if user == nil {
			return nil
		}
		ev := application.Event{
			Sender: domain.Sender{ID: domain.UserID(strconv.FormatInt(user.ID, 10)), Handle: user.Username},
			Text:   c.Text(),
		}
		h.queue.submit(ev.Sender.ID, func() {
			if err := h.answer(ctx, c, ev); err != nil {
				h.logger.LogAttrs(ctx, slog.LevelError, "failed to reply to customer",
					slog.String("user.id", string(ev.Sender.ID)),
					slog.String("error", err.Error()))
			}
		})
		return nil
	}
}

func (h *Customer) answer(ctx context.Context, c tele.Context, ev application.Event) error {
	reply, err := h.events.Handle(ctx, ev)
	if err != nil {
		h.logger.LogAttrs(ctx, slog.LevelError, "failed to handle customer message",
			slog.String("user.id", string(ev.Sender.ID)),
			slog.String("error", err.Error()))
		return c.Send(failureText)
	}
	for _, msg := range reply.Messages {
		for _, chunk := range telegram.Split(msg, telegram.MaxMessageRunes) {
			if err := c.Send(chunk); err != nil {
				return err
			}
		}
	}
	return nil
}
