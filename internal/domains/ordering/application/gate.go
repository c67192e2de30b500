package application

import (
	"context"
	"sync"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
)

// userGate lets one event per user through at a time. Users never share a
// semaphore, so a slow checkout only holds up its own user.
type userGate struct {
	sems sync.Map // domain.UserID -> chan struct{}
}

func (g *userGate) enter(ctx context.Context, id domain.UserID) (func(), error) {
	v, _ := g.sems.LoadOrStore(id, make(chan struct{}, 1))
	sem := v.(chan struct{})
	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
