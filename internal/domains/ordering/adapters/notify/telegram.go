package notify

import (
	"context"
	"errors"

	tele "gopkg.in/telebot.v4"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
)

var _ ports.AdminNotifier = (*Telegram)(nil)

// MessageSender is the part of *tele.Bot used to reach the admin chat.
type MessageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Telegram posts order summaries to the operators' chat.
type Telegram struct {
	bot  MessageSender
	chat tele.Recipient
}

func NewTelegram(bot MessageSender, chatID int64) *Telegram {
	return &Telegram{bot: bot, chat: tele.ChatID(chatID)}
}

// Notify sends the summary. telebot has no context support, so a cancelled
// ctx returns early while the request finishes in the background.
func (t *Telegram) Notify(ctx context.Context, order *domain.Order) error {
	if t == nil || t.bot == nil {
		return errors.New("telegram notifier not configured")
	}
	text := FormatOrder(order)
	done := make(chan error, 1)
	go func() {
		_, err := t.bot.Send(t.chat, text)
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
