package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
)

// NotifyAdminActivityName delivers a placed order to the operator channels.
const NotifyAdminActivityName = "orders.activities.NotifyAdmin"

// Activities groups activities that operate on placed orders.
type Activities struct {
	notifier ports.AdminNotifier
}

// NewActivities wires the direct (non-durable) admin notifier into the activities bundle.
func NewActivities(notifier ports.AdminNotifier) *Activities {
	return &Activities{notifier: notifier}
}

// NotifyAdmin sends one order summary. Errors are retried by the workflow.
func (a *Activities) NotifyAdmin(ctx context.Context, order domain.Order) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.notifier == nil {
		logger.Error("notify activity not initialized", "orderId", order.ID.String())
		return errors.New("notify activity not initialized")
	}
	logger.Info("NotifyAdmin activity started", "orderId", order.ID.String(), "attempt", activity.GetInfo(ctx).Attempt)
	if err := a.notifier.Notify(ctx, &order); err != nil {
		logger.Error("NotifyAdmin activity failed", "orderId", order.ID.String(), "error", err)
		return err
	}
	logger.Info("NotifyAdmin activity completed", "orderId", order.ID.String())
	return nil
}
