package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	catalogdomain "github.com/Apurer/go-order-bot/internal/domains/catalog/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
)

const (
	DefaultPersistTimeout = 10 * time.Second
	DefaultNotifyTimeout  = 5 * time.Second
)

// Service is the per-user session engine: cart operations, the checkout
// dialogue, and the persist-then-notify finalize step.
type Service struct {
	catalog        *catalogdomain.Catalog
	sessions       ports.SessionStore
	orders         ports.OrderGateway
	notifier       ports.AdminNotifier
	logger         *slog.Logger
	now            func() time.Time
	persistTimeout time.Duration
	notifyTimeout  time.Duration
	resetProfile   bool
}

type Option func(*Service)

// WithNotifier sets the operator channel notified after each persisted order.
func WithNotifier(n ports.AdminNotifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTimeouts bounds ledger and notifier calls. Non-positive values keep the defaults.
func WithTimeouts(persist, notify time.Duration) Option {
	return func(s *Service) {
		if persist > 0 {
			s.persistTimeout = persist
		}
		if notify > 0 {
			s.notifyTimeout = notify
		}
	}
}

// WithProfileReset clears the customer profile after every placed order.
func WithProfileReset(enabled bool) Option {
	return func(s *Service) { s.resetProfile = enabled }
}

// NewService wires the session engine with its collaborators.
func NewService(catalog *catalogdomain.Catalog, sessions ports.SessionStore, orders ports.OrderGateway, opts ...Option) *Service {
	s := &Service{
		catalog:        catalog,
		sessions:       sessions,
		orders:         orders,
		notifier:       ports.NoopNotifier,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:            time.Now,
		persistTimeout: DefaultPersistTimeout,
		notifyTimeout:  DefaultNotifyTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Menu lists the catalog in display order.
func (s *Service) Menu(_ context.Context) []catalogdomain.Item {
	return s.catalog.Items()
}

// AddItem puts one more unit of item in the cart and returns its quantity.
func (s *Service) AddItem(ctx context.Context, sender domain.Sender, item string) (int, error) {
	name, ok := s.resolve(item)
	if !ok {
		return 0, mapError(fmt.Errorf("%w: %q", domain.ErrUnknownItem, strings.TrimSpace(item)))
	}
	var qty int
	err := s.withSession(ctx, sender, func(session *domain.Session) error {
		if err := session.EnsureEditable(); err != nil {
			return err
		}
		qty = session.Cart.Add(name)
		return nil
	})
	return qty, err
}

// RemoveOne takes one unit of item out of the cart and returns what is left.
func (s *Service) RemoveOne(ctx context.Context, sender domain.Sender, item string) (int, error) {
	name, ok := s.resolve(item)
	if !ok {
		name = strings.TrimSpace(item)
	}
	var left int
	err := s.withSession(ctx, sender, func(session *domain.Session) error {
		if err := session.EnsureEditable(); err != nil {
			return err
		}
		var err error
		left, err = session.Cart.RemoveOne(name)
		return err
	})
	return left, err
}

// ClearCart empties the cart.
func (s *Service) ClearCart(ctx context.Context, sender domain.Sender) error {
	return s.withSession(ctx, sender, func(session *domain.Session) error {
		if err := session.EnsureEditable(); err != nil {
			return err
		}
		session.Cart.Clear()
		return nil
	})
}

// ViewCart prices the cart. The snapshot is detached from the session.
func (s *Service) ViewCart(ctx context.Context, sender domain.Sender) (domain.CartTotals, error) {
	var totals domain.CartTotals
	err := s.withSession(ctx, sender, func(session *domain.Session) error {
		totals = session.Cart.Totals(s.catalog)
		return nil
	})
	return totals, err
}

// BeginCheckout starts collecting customer details for a non-empty cart.
func (s *Service) BeginCheckout(ctx context.Context, sender domain.Sender) (domain.CheckoutState, error) {
	var state domain.CheckoutState
	err := s.withSession(ctx, sender, func(session *domain.Session) error {
		err := session.BeginCheckout()
		state = session.State
		return err
	})
	return state, err
}

// SubmitField files text into the profile field the dialogue is waiting for.
// The phone number completes the dialogue and finalizes the order.
func (s *Service) SubmitField(ctx context.Context, sender domain.Sender, text string) (ports.SubmitResult, error) {
	var result ports.SubmitResult
	err := s.withSession(ctx, sender, func(session *domain.Session) error {
		ready, err := session.Submit(text)
		if err != nil {
			result.State = session.State
			if errors.Is(err, domain.ErrNoCheckout) {
				s.logger.LogAttrs(ctx, slog.LevelWarn, "field submitted outside checkout",
					slog.String("user.id", string(session.UserID)))
			}
			return err
		}
		if ready {
			result.Order, err = s.finalize(ctx, session)
		}
		result.State = session.State
		return err
	})
	return result, err
}

// CancelCheckout abandons the dialogue; the cart is kept.
func (s *Service) CancelCheckout(ctx context.Context, sender domain.Sender) error {
	return s.withSession(ctx, sender, func(session *domain.Session) error {
		return session.AbandonCheckout()
	})
}

// State returns the current checkout state of the sender.
func (s *Service) State(ctx context.Context, sender domain.Sender) (domain.CheckoutState, error) {
	var state domain.CheckoutState
	err := s.withSession(ctx, sender, func(session *domain.Session) error {
		state = session.State
		return nil
	})
	return state, err
}

// finalize runs inside the user's exclusive section, so a second checkout by
// the same user waits until the order is persisted and notified.
func (s *Service) finalize(ctx context.Context, session *domain.Session) (*domain.Order, error) {
	order, err := domain.NewOrder(session, s.catalog, s.now())
	if err != nil {
		_ = session.AbandonCheckout()
		return nil, err
	}
	if err := s.persist(ctx, order); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to persist order",
			slog.String("order.id", order.ID.String()),
			slog.String("user.id", string(order.UserID)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	session.CompleteCheckout(s.resetProfile)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order placed",
		slog.String("order.id", order.ID.String()),
		slog.String("user.id", string(order.UserID)),
		slog.Int64("order.total", order.Total))
	s.notify(ctx, order)
	return order, nil
}

func (s *Service) persist(ctx context.Context, order *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, s.persistTimeout)
	defer cancel()
	return s.orders.Append(ctx, order.Clone())
}

// notify outlives the caller's cancellation: the order is already recorded
// and operators should still hear about it.
func (s *Service) notify(ctx context.Context, order *domain.Order) {
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()
	if err := s.notifier.Notify(nctx, order.Clone()); err != nil {
		err = fmt.Errorf("%w: %w", ErrNotifyFailed, err)
		s.logger.LogAttrs(ctx, slog.LevelWarn, "admin notification failed",
			slog.String("order.id", order.ID.String()),
			slog.String("error", err.Error()))
	}
}

func (s *Service) withSession(ctx context.Context, sender domain.Sender, fn func(*domain.Session) error) error {
	if strings.TrimSpace(string(sender.ID)) == "" {
		return mapError(domain.ErrInvalidUserID)
	}
	return mapError(s.sessions.WithSession(ctx, sender.ID, func(session *domain.Session) error {
		session.Observe(sender)
		return fn(session)
	}))
}

func (s *Service) resolve(item string) (string, bool) {
	if s.catalog.Contains(item) {
		return item, true
	}
	return s.catalog.Resolve(item)
}

var _ ports.Service = (*Service)(nil)
