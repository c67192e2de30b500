package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
)

var _ ports.OrderLedger = (*OrderLedger)(nil)

// OrderLedger is an in-memory order ledger, used when no database is configured.
type OrderLedger struct {
	mu     sync.RWMutex
	orders []*domain.Order
	ids    map[uuid.UUID]struct{}
}

func NewOrderLedger() *OrderLedger {
	return &OrderLedger{ids: map[uuid.UUID]struct{}{}}
}

func (l *OrderLedger) Append(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.ids[order.ID]; ok {
		return ports.ErrDuplicateOrder
	}
	l.ids[order.ID] = struct{}{}
	l.orders = append(l.orders, order.Clone())
	return nil
}

func (l *OrderLedger) List(_ context.Context) ([]*domain.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	list := make([]*domain.Order, 0, len(l.orders))
	for _, order := range l.orders {
		list = append(list, order.Clone())
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].PlacedAt.Before(list[j].PlacedAt)
	})
	return list, nil
}
