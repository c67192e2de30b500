package notify

import (
	"context"
	"errors"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
)

var _ ports.AdminNotifier = Fanout(nil)

// Fanout delivers to every notifier in turn; one failure does not stop the rest.
type Fanout []ports.AdminNotifier

func (f Fanout) Notify(ctx context.Context, order *domain.Order) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, order); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
