package application

import (
	"context"
	"errors"
	"fmt"

	orderingdomain "github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	orderingports "github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
	"github.com/Apurer/go-order-bot/internal/domains/reporting/domain"
	"github.com/Apurer/go-order-bot/internal/domains/reporting/ports"
)

const (
	DefaultRecent = 5
	MaxRecent     = 10
)

// ErrLedgerUnavailable wraps read failures of the order ledger.
var ErrLedgerUnavailable = errors.New("order ledger unavailable")

var _ ports.Service = (*Service)(nil)

// Service reads the order ledger for operators.
type Service struct {
	orders orderingports.OrderReader
}

func NewService(orders orderingports.OrderReader) *Service {
	return &Service{orders: orders}
}

// All returns every order, oldest first.
func (s *Service) All(ctx context.Context) ([]*orderingdomain.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLedgerUnavailable, err)
	}
	return orders, nil
}

// Recent returns the last n orders. n is clamped to [1, MaxRecent]; n <= 0
// means DefaultRecent.
func (s *Service) Recent(ctx context.Context, n int) ([]*orderingdomain.Order, error) {
	orders, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	n = ClampRecent(n)
	if len(orders) > n {
		orders = orders[len(orders)-n:]
	}
	return orders, nil
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	orders, err := s.All(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Compute(orders), nil
}

func ClampRecent(n int) int {
	switch {
	case n <= 0:
		return DefaultRecent
	case n > MaxRecent:
		return MaxRecent
	}
	return n
}
