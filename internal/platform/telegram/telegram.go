// Package telegram builds long-polling telebot clients and shapes outgoing
// text to fit Telegram message limits.
package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	tele "gopkg.in/telebot.v4"
)

// MaxMessageRunes keeps replies under the Telegram 4096 character limit.
const MaxMessageRunes = 4000

// DefaultPollTimeout is the long-poll duration when none is configured.
const DefaultPollTimeout = 10 * time.Second

var ErrMissingToken = errors.New("telegram token is required")

// Router is the handler registration surface of *tele.Bot.
type Router interface {
	Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc)
}

// NewBot creates a long-polling bot from Settings.
func NewBot(token string, pollTimeout time.Duration, logger *slog.Logger) (*tele.Bot, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	return tele.NewBot(Settings(token, pollTimeout, logger))
}

// Settings runs handlers on the polling goroutine in update order; handlers
// that need concurrency hand work off themselves. Handler errors are
// logged, never fatal.
func Settings(token string, pollTimeout time.Duration, logger *slog.Logger) tele.Settings {
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return tele.Settings{
		Token:       token,
		Poller:      &tele.LongPoller{Timeout: pollTimeout},
		Synchronous: true,
		OnError: func(err error, c tele.Context) {
			attrs := []slog.Attr{slog.String("error", err.Error())}
			if c != nil && c.Chat() != nil {
				attrs = append(attrs, slog.Int64("chat.id", c.Chat().ID))
			}
			logger.LogAttrs(context.Background(), slog.LevelError, "telegram handler failed", attrs...)
		},
	}
}

// Split cuts text into chunks of at most limit runes, preferring to break
// after a newline.
func Split(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageRunes
	}
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var chunks []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
