package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
	orderworkflows "github.com/Apurer/go-order-bot/internal/durable/temporal/workflows/orders"
)

var _ ports.AdminNotifier = (*TemporalNotifier)(nil)

// WorkflowStarter is the part of client.Client used to start workflows.
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalNotifier hands admin notifications to a durable workflow. Notify
// returns once the workflow is scheduled; delivery and retries happen on the
// worker.
type TemporalNotifier struct {
	client    WorkflowStarter
	taskQueue string
}

// NewTemporalNotifier wires a Temporal client into the notifier.
func NewTemporalNotifier(c WorkflowStarter) *TemporalNotifier {
	return &TemporalNotifier{client: c, taskQueue: orderworkflows.OrderNotificationTaskQueue}
}

func (n *TemporalNotifier) Notify(ctx context.Context, order *domain.Order) error {
	if n == nil || n.client == nil {
		return errors.New("temporal notifier not configured")
	}
	options := client.StartWorkflowOptions{
		ID:        WorkflowID(order),
		TaskQueue: n.taskQueue,
	}
	_, err := n.client.ExecuteWorkflow(ctx, options, orderworkflows.OrderNotificationWorkflowName,
		orderworkflows.OrderNotificationWorkflowInput{Order: *order.Clone(), TraceID: workflowTraceID(ctx)})
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &alreadyStarted) {
		return nil
	}
	return err
}

// WorkflowID is derived from the order ID, so an order is announced at most once.
func WorkflowID(order *domain.Order) string {
	return fmt.Sprintf("order-notification-%s", order.ID)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.TraceID().IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
