package ports

import (
	"context"

	catalogdomain "github.com/Apurer/go-order-bot/internal/domains/catalog/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
)

// SubmitResult reports where the checkout dialogue stands after a field was
// submitted. Order is set only when the order was persisted.
type SubmitResult struct {
	State domain.CheckoutState
	Order *domain.Order
}

// Service exposes the per-user session engine to adapters.
type Service interface {
	Menu(ctx context.Context) []catalogdomain.Item
	AddItem(ctx context.Context, sender domain.Sender, item string) (int, error)
	RemoveOne(ctx context.Context, sender domain.Sender, item string) (int, error)
	ClearCart(ctx context.Context, sender domain.Sender) error
	ViewCart(ctx context.Context, sender domain.Sender) (domain.CartTotals, error)
	BeginCheckout(ctx context.Context, sender domain.Sender) (domain.CheckoutState, error)
	SubmitField(ctx context.Context, sender domain.Sender, text string) (SubmitResult, error)
	CancelCheckout(ctx context.Context, sender domain.Sender) error
	State(ctx context.Context, sender domain.Sender) (domain.CheckoutState, error)
}
