package ports

import (
	"context"

	orderingdomain "github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/domains/reporting/domain"
)

// Service answers operator questions about the order ledger.
type Service interface {
	All(ctx context.Context) ([]*orderingdomain.Order, error)
	Recent(ctx context.Context, n int) ([]*orderingdomain.Order, error)
	Stats(ctx context.Context) (domain.Stats, error)
}
