// Package resilience wraps ledger and notifier calls in circuit breakers so a
// failing backend is skipped quickly instead of stalling every checkout.
package resilience

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
)

// Settings tunes a breaker. Zero values fall back to the defaults below.
type Settings struct {
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration
	Logger      *slog.Logger
}

func (s Settings) build(name string) gobreaker.Settings {
	failures := s.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}
	timeout := s.OpenTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := s.Logger
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ports.ErrDuplicateOrder)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("circuit breaker state changed",
					slog.String("breaker", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()))
			}
		},
	}
}

// Ledger guards Append with a breaker. List is passed through.
type Ledger struct {
	inner ports.OrderLedger
	cb    *gobreaker.CircuitBreaker[struct{}]
}

func NewLedger(inner ports.OrderLedger, settings Settings) *Ledger {
	return &Ledger{inner: inner, cb: gobreaker.NewCircuitBreaker[struct{}](settings.build("order-ledger"))}
}

func (l *Ledger) Append(ctx context.Context, order *domain.Order) error {
	_, err := l.cb.Execute(func() (struct{}, error) {
		return struct{}{}, l.inner.Append(ctx, order)
	})
	return err
}

func (l *Ledger) List(ctx context.Context) ([]*domain.Order, error) {
	return l.inner.List(ctx)
}

// State reports the breaker state, e.g. for health checks.
func (l *Ledger) State() gobreaker.State { return l.cb.State() }

// Notifier guards an admin channel with a breaker.
type Notifier struct {
	inner ports.AdminNotifier
	cb    *gobreaker.CircuitBreaker[struct{}]
}

func NewNotifier(name string, inner ports.AdminNotifier, settings Settings) *Notifier {
	return &Notifier{inner: inner, cb: gobreaker.NewCircuitBreaker[struct{}](settings.build("notifier-" + name))}
}

func (n *Notifier) Notify(ctx context.Context, order *domain.Order) error {
	_, err := n.cb.Execute(func() (struct{}, error) {
		return struct{}{}, n.inner.Notify(ctx, order)
	})
	return err
}

func (n *Notifier) State() gobreaker.State { return n.cb.State() }

var (
	_ ports.OrderLedger   = (*Ledger)(nil)
	_ ports.AdminNotifier = (*Notifier)(nil)
)
