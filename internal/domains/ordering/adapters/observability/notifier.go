package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
)

// Notifier traces and counts admin notifications. The engine swallows
// notification errors, so this is where their failures become visible.
type Notifier struct {
	inner    ports.AdminNotifier
	channel  string
	tracer   trace.Tracer
	logger   *slog.Logger
	sent     metric.Int64Counter
	failures metric.Int64Counter
}

// NewNotifier wraps inner; channel labels spans and metrics, e.g. "telegram".
func NewNotifier(inner ports.AdminNotifier, channel string, opts ...Option) *Notifier {
	o := buildOptions(opts)
	n := &Notifier{inner: inner, channel: channel, tracer: o.tracer, logger: o.logger}
	if o.meter != nil {
		n.sent, _ = o.meter.Int64Counter("ordering.notifier.sent", metric.WithDescription("Admin notifications delivered"))
		n.failures, _ = o.meter.Int64Counter("ordering.notifier.failures", metric.WithDescription("Admin notifications that failed"))
	}
	return n
}

func (n *Notifier) Notify(ctx context.Context, order *domain.Order) error {
	ctx, span := n.tracer.Start(ctx, "AdminNotifier.Notify", trace.WithAttributes(
		attribute.String("notifier.channel", n.channel),
		attribute.String("order.id", order.ID.String())))
	defer span.End()

	attrs := metric.WithAttributes(attribute.String("notifier.channel", n.channel))
	if err := n.inner.Notify(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if n.failures != nil {
			n.failures.Add(ctx, 1, attrs)
		}
		n.logger.LogAttrs(ctx, slog.LevelError, "admin notification failed",
			slog.String("notifier.channel", n.channel),
			slog.String("order.id", order.ID.String()),
			slog.String("error", err.Error()))
		return err
	}
	if n.sent != nil {
		n.sent.Add(ctx, 1, attrs)
	}
	return nil
}

var _ ports.AdminNotifier = (*Notifier)(nil)
