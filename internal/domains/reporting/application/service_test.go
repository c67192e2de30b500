package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/adapters/memory"
	orderingdomain "github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
)

func seededLedger(t *testing.T, n int) *memory.OrderLedger {
	t.Helper()
	ledger := memory.NewOrderLedger()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		require.NoError(t, ledger.Append(context.Background(), &orderingdomain.Order{
			ID:       uuid.New(),
			Total:    int64(i + 1),
			PlacedAt: base.Add(time.Duration(i) * time.Minute),
			Lines:    []orderingdomain.OrderLine{{Item: "Tea", Quantity: 1}},
		}))
	}
	return ledger
}

func TestRecent_Clamps(t *testing.T) {
	svc := NewService(seededLedger(t, 12))
	ctx := context.Background()

	cases := []struct {
		n, want int
		last    int64
	}{
		{0, 5, 12},
		{-3, 5, 12},
		{1, 1, 12},
		{3, 3, 12},
		{50, 10, 12},
	}
	for _, tc := range cases {
		orders, err := svc.Recent(ctx, tc.n)
		require.NoError(t, err)
		require.Len(t, orders, tc.want, "n=%d", tc.n)
		require.Equal(t, tc.last, orders[len(orders)-1].Total)
	}
}

func TestRecent_FewerThanRequested(t *testing.T) {
	svc := NewService(seededLedger(t, 2))
	orders, err := svc.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, orders, 2)
}

func TestStats(t *testing.T) {
	svc := NewService(seededLedger(t, 3))
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalOrders)
	require.Equal(t, int64(6), stats.Revenue)
	require.Equal(t, "Tea", stats.TopItems[0].Item)
	require.Equal(t, 3, stats.TopItems[0].Orders)
}

type brokenReader struct{}

func (brokenReader) List(context.Context) ([]*orderingdomain.Order, error) {
	return nil, errors.New("connection refused")
}

func TestAll_WrapsLedgerErrors(t *testing.T) {
	_, err := NewService(brokenReader{}).All(context.Background())
	require.ErrorIs(t, err, ErrLedgerUnavailable)
}
