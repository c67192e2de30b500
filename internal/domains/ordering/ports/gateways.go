package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
)

// ErrDuplicateOrder is returned by ledgers that already hold the order ID.
var ErrDuplicateOrder = errors.New("order already recorded")

// OrderGateway durably appends finalized orders. Append is synchronous and
// appends a new record on every call; callers never resend an order ID.
type OrderGateway interface {
	Append(ctx context.Context, order *domain.Order) error
}

// OrderReader lists persisted orders, oldest first.
type OrderReader interface {
	List(ctx context.Context) ([]*domain.Order, error)
}

// OrderLedger is a store that supports both appends and reads.
type OrderLedger interface {
	OrderGateway
	OrderReader
}

// AdminNotifier delivers a placed order to operators. Delivery is best
// effort; the engine never surfaces its errors to customers.
type AdminNotifier interface {
	Notify(ctx context.Context, order *domain.Order) error
}

// NoopNotifier is a safe default when no operator channel is configured.
var NoopNotifier AdminNotifier = noopNotifier{}

type noopNotifier struct{}

func (noopNotifier) Notify(_ context.Context, _ *domain.Order) error { return nil }
