package domain

import (
	"fmt"
	"strings"

	orderingdomain "github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
)

const separator = "──────────────────\n"

// NoOrdersText is shown when the ledger is empty.
const NoOrdersText = "No orders yet"

// RenderAll lists every order with its position in the ledger.
func RenderAll(orders []*orderingdomain.Order) string {
	if len(orders) == 0 {
		return NoOrdersText
	}
	var b strings.Builder
	b.WriteString("All orders:\n\n")
	for i, o := range orders {
		fmt.Fprintf(&b, "Order #%d\n", i+1)
		fmt.Fprintf(&b, "Name: %s\n", o.Customer.DisplayName)
		fmt.Fprintf(&b, "Phone: %s\n", o.Customer.PhoneNumber)
		fmt.Fprintf(&b, "Address: %s\n", o.Customer.DeliveryAddress)
		fmt.Fprintf(&b, "Order: %s\n", o.ItemsSummary())
		fmt.Fprintf(&b, "Total: %d\n", o.Total)
		fmt.Fprintf(&b, "User ID: %s\n", o.UserID)
		fmt.Fprintf(&b, "Username: %s\n", o.DisplayHandle())
		fmt.Fprintf(&b, "Date: %s\n", o.Timestamp())
		b.WriteString(separator)
	}
	return b.String()
}

// RenderRecent lists the short form of the given orders.
func RenderRecent(orders []*orderingdomain.Order) string {
	if len(orders) == 0 {
		return NoOrdersText
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Last %d orders:\n\n", len(orders))
	for _, o := range orders {
		fmt.Fprintf(&b, "Name: %s\n", o.Customer.DisplayName)
		fmt.Fprintf(&b, "Phone: %s\n", o.Customer.PhoneNumber)
		fmt.Fprintf(&b, "Total: %d\n", o.Total)
		fmt.Fprintf(&b, "Date: %s\n", o.Timestamp())
		b.WriteString(separator)
	}
	return b.String()
}

// RenderStats formats Stats for chat.
func RenderStats(s Stats) string {
	if s.TotalOrders == 0 {
		return NoOrdersText
	}
	var b strings.Builder
	b.WriteString("Order statistics:\n\n")
	fmt.Fprintf(&b, "Total orders: %d\n", s.TotalOrders)
	fmt.Fprintf(&b, "Revenue: %d\n\n", s.Revenue)
	b.WriteString("Top items:\n")
	for i, item := range s.TopItems {
		fmt.Fprintf(&b, "%d. %s: %d orders\n", i+1, item.Item, item.Orders)
	}
	if s.FirstOrderAt != nil && s.LastOrderAt != nil {
		fmt.Fprintf(&b, "\nPeriod: %s to %s", s.FirstOrderAt.UTC().Format("2006-01-02"), s.LastOrderAt.UTC().Format("2006-01-02"))
	}
	return b.String()
}
