package domain

import (
	"sort"
	"time"

	orderingdomain "github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
)

// TopItemsLimit bounds Stats.TopItems.
const TopItemsLimit = 5

// ItemPopularity counts the orders that contain an item, whatever the quantity.
type ItemPopularity struct {
	Item   string `json:"item" yaml:"item"`
	Orders int    `json:"orders" yaml:"orders"`
}

// Stats summarises the order ledger.
type Stats struct {
	TotalOrders  int              `json:"totalOrders" yaml:"total_orders"`
	Revenue      int64            `json:"revenue" yaml:"revenue"`
	TopItems     []ItemPopularity `json:"topItems" yaml:"top_items"`
	FirstOrderAt *time.Time       `json:"firstOrderAt,omitempty" yaml:"first_order_at,omitempty"`
	LastOrderAt  *time.Time       `json:"lastOrderAt,omitempty" yaml:"last_order_at,omitempty"`
}

// Compute derives Stats from orders in any order.
func Compute(orders []*orderingdomain.Order) Stats {
	stats := Stats{TotalOrders: len(orders), TopItems: []ItemPopularity{}}
	counts := map[string]int{}
	for _, order := range orders {
		stats.Revenue += order.Total
		seen := map[string]bool{}
		for _, line := range order.Lines {
			if !seen[line.Item] {
				seen[line.Item] = true
				counts[line.Item]++
			}
		}
		placed := order.PlacedAt
		if stats.FirstOrderAt == nil || placed.Before(*stats.FirstOrderAt) {
			stats.FirstOrderAt = &placed
		}
		if stats.LastOrderAt == nil || placed.After(*stats.LastOrderAt) {
			stats.LastOrderAt = &placed
		}
	}
	for item, n := range counts {
		stats.TopItems = append(stats.TopItems, ItemPopularity{Item: item, Orders: n})
	}
	sort.Slice(stats.TopItems, func(i, j int) bool {
		a, b := stats.TopItems[i], stats.TopItems[j]
		if a.Orders != b.Orders {
			return a.Orders > b.Orders
		}
		return a.Item < b.Item
	})
	if len(stats.TopItems) > TopItemsLimit {
		stats.TopItems = stats.TopItems[:TopItemsLimit]
	}
	return stats
}
