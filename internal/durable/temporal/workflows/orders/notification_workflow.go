package orders

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	orderactivities "github.com/Apurer/go-order-bot/internal/durable/temporal/activities/orders"
)

const (
	// OrderNotificationWorkflowName is the public identifier for registering the workflow.
	OrderNotificationWorkflowName = "orders.workflows.Notification"
	// OrderNotificationTaskQueue is the queue consumed by the notification worker.
	OrderNotificationTaskQueue = "ORDER_NOTIFICATION"
)

// OrderNotificationWorkflowInput carries the placed order to announce.
type OrderNotificationWorkflowInput struct {
	Order   domain.Order
	TraceID string
}

// OrderNotificationWorkflow retries the admin notification until it lands or
// the attempts run out. The customer has already been answered.
func OrderNotificationWorkflow(ctx workflow.Context, input OrderNotificationWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	orderID := input.Order.ID.String()
	logger.Info("OrderNotificationWorkflow started", withTraceID(input.TraceID, "orderId", orderID)...)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    10,
		},
	})
	if err := workflow.ExecuteActivity(ctx, orderactivities.NotifyAdminActivityName, input.Order).Get(ctx, nil); err != nil {
		logger.Error("OrderNotificationWorkflow failed", withTraceID(input.TraceID, "orderId", orderID, "error", err)...)
		return err
	}
	logger.Info("OrderNotificationWorkflow completed", withTraceID(input.TraceID, "orderId", orderID)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
