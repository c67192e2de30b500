package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogdomain "github.com/Apurer/go-order-bot/internal/domains/catalog/domain"
	orderingapp "github.com/Apurer/go-order-bot/internal/domains/ordering/application"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
)

const tracerName = "github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/observability/service"

// Service decorates the session engine with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*options)

type options struct {
	tracer trace.Tracer
	logger *slog.Logger
	meter  metric.Meter
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(o *options) {
		o.meter = m
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.tracer == nil {
		o.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// New wraps the core session engine.
func New(inner ports.Service, opts ...Option) ports.Service {
	o := buildOptions(opts)
	return &Service{
		inner:   inner,
		tracer:  o.tracer,
		logger:  o.logger,
		metrics: newServiceMetrics(o.meter),
	}
}

func (s *Service) Menu(ctx context.Context) []catalogdomain.Item {
	ctx, span := s.tracer.Start(ctx, "OrderingService.Menu")
	defer span.End()

	items := s.inner.Menu(ctx)
	span.SetAttributes(attribute.Int("menu.items", len(items)))
	return items
}

func (s *Service) AddItem(ctx context.Context, sender domain.Sender, item string) (int, error) {
	ctx, span := s.tracer.Start(ctx, "OrderingService.AddItem", trace.WithAttributes(userAttr(sender), attribute.String("item", item)))
	defer span.End()

	qty, err := s.inner.AddItem(ctx, sender, item)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to add item", userLog(sender), slog.String("item", item))
	}
	s.metrics.recordItemAdded(ctx)
	s.logInfo(ctx, "item added", userLog(sender), slog.String("item", item), slog.Int("quantity", qty))
	return qty, nil
}

func (s *Service) RemoveOne(ctx context.Context, sender domain.Sender, item string) (int, error) {
	ctx, span := s.tracer.Start(ctx, "OrderingService.RemoveOne", trace.WithAttributes(userAttr(sender), attribute.String("item", item)))
	defer span.End()

	left, err := s.inner.RemoveOne(ctx, sender, item)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to remove item", userLog(sender), slog.String("item", item))
	}
	s.logInfo(ctx, "item removed", userLog(sender), slog.String("item", item), slog.Int("quantity", left))
	return left, nil
}

func (s *Service) ClearCart(ctx context.Context, sender domain.Sender) error {
	ctx, span := s.tracer.Start(ctx, "OrderingService.ClearCart", trace.WithAttributes(userAttr(sender)))
	defer span.End()

	if err := s.inner.ClearCart(ctx, sender); err != nil {
		return s.handleError(ctx, span, err, "failed to clear cart", userLog(sender))
	}
	s.logInfo(ctx, "cart cleared", userLog(sender))
	return nil
}

func (s *Service) ViewCart(ctx context.Context, sender domain.Sender) (domain.CartTotals, error) {
	ctx, span := s.tracer.Start(ctx, "OrderingService.ViewCart", trace.WithAttributes(userAttr(sender)))
	defer span.End()

	totals, err := s.inner.ViewCart(ctx, sender)
	if err != nil {
		return domain.CartTotals{}, s.handleError(ctx, span, err, "failed to view cart", userLog(sender))
	}
	span.SetAttributes(attribute.Int("cart.lines", totals.Len()), attribute.Int64("cart.total", totals.Total))
	return totals, nil
}

func (s *Service) BeginCheckout(ctx context.Context, sender domain.Sender) (domain.CheckoutState, error) {
	ctx, span := s.tracer.Start(ctx, "OrderingService.BeginCheckout", trace.WithAttributes(userAttr(sender)))
	defer span.End()

	state, err := s.inner.BeginCheckout(ctx, sender)
	if err != nil {
		return state, s.handleError(ctx, span, err, "failed to begin checkout", userLog(sender))
	}
	s.metrics.recordCheckoutBegun(ctx)
	s.logInfo(ctx, "checkout started", userLog(sender))
	return state, nil
}

func (s *Service) SubmitField(ctx context.Context, sender domain.Sender, text string) (ports.SubmitResult, error) {
	ctx, span := s.tracer.Start(ctx, "OrderingService.SubmitField", trace.WithAttributes(userAttr(sender)))
	defer span.End()

	result, err := s.inner.SubmitField(ctx, sender, text)
	span.SetAttributes(attribute.String("checkout.state", result.State.String()))
	if err != nil {
		if errors.Is(err, orderingapp.ErrPersistFailed) {
			s.metrics.recordPersistFailure(ctx)
		}
		return result, s.handleError(ctx, span, err, "failed to submit checkout field", userLog(sender),
			slog.String("checkout.state", result.State.String()))
	}
	if result.Order != nil {
		span.SetAttributes(attribute.String("order.id", result.Order.ID.String()))
		s.metrics.recordOrderPlaced(ctx, result.Order.Total)
		s.logInfo(ctx, "checkout completed", userLog(sender), slog.String("order.id", result.Order.ID.String()))
	}
	return result, nil
}

func (s *Service) CancelCheckout(ctx context.Context, sender domain.Sender) error {
	ctx, span := s.tracer.Start(ctx, "OrderingService.CancelCheckout", trace.WithAttributes(userAttr(sender)))
	defer span.End()

	if err := s.inner.CancelCheckout(ctx, sender); err != nil {
		return s.handleError(ctx, span, err, "failed to cancel checkout", userLog(sender))
	}
	s.logInfo(ctx, "checkout cancelled", userLog(sender))
	return nil
}

func (s *Service) State(ctx context.Context, sender domain.Sender) (domain.CheckoutState, error) {
	state, err := s.inner.State(ctx, sender)
	if err != nil {
		s.logError(ctx, "failed to read checkout state", err, userLog(sender))
	}
	return state, err
}

func userAttr(sender domain.Sender) attribute.KeyValue {
	return attribute.String("user.id", string(sender.ID))
}

func userLog(sender domain.Sender) slog.Attr {
	return slog.String("user.id", string(sender.ID))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

// handleError records err on the span. Customer mistakes are logged at warn
// and leave the span status untouched.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	if isCustomerError(err) {
		s.logger.LogAttrs(ctx, slog.LevelWarn, msg, append(attrs, slog.String("error", err.Error()))...)
		return err
	}
	span.SetStatus(codes.Error, err.Error())
	s.logError(ctx, msg, err, attrs...)
	return err
}

func isCustomerError(err error) bool {
	return errors.Is(err, domain.ErrUnknownItem) ||
		errors.Is(err, domain.ErrItemNotInCart) ||
		errors.Is(err, domain.ErrEmptyCart) ||
		errors.Is(err, domain.ErrCheckoutInProgress) ||
		errors.Is(err, domain.ErrNoCheckout)
}

type serviceMetrics struct {
	itemsAdded      metric.Int64Counter
	checkoutsBegun  metric.Int64Counter
	ordersPlaced    metric.Int64Counter
	revenue         metric.Int64Counter
	persistFailures metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	itemsAdded, _ := m.Int64Counter("ordering.service.items_added", metric.WithDescription("Number of items put in carts"))
	checkoutsBegun, _ := m.Int64Counter("ordering.service.checkouts_begun", metric.WithDescription("Number of checkouts started"))
	ordersPlaced, _ := m.Int64Counter("ordering.service.orders_placed", metric.WithDescription("Number of orders persisted"))
	revenue, _ := m.Int64Counter("ordering.service.revenue", metric.WithDescription("Sum of placed order totals"))
	persistFailures, _ := m.Int64Counter("ordering.service.persist_failures", metric.WithDescription("Number of orders the ledger rejected"))
	return serviceMetrics{
		itemsAdded:      itemsAdded,
		checkoutsBegun:  checkoutsBegun,
		ordersPlaced:    ordersPlaced,
		revenue:         revenue,
		persistFailures: persistFailures,
	}
}

func (m serviceMetrics) recordItemAdded(ctx context.Context) {
	if m.itemsAdded != nil {
		m.itemsAdded.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordCheckoutBegun(ctx context.Context) {
	if m.checkoutsBegun != nil {
		m.checkoutsBegun.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordOrderPlaced(ctx context.Context, total int64) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
	if m.revenue != nil {
		m.revenue.Add(ctx, total)
	}
}

func (m serviceMetrics) recordPersistFailure(ctx context.Context) {
	if m.persistFailures != nil {
		m.persistFailures.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
