package notify

import (
	"fmt"
	"strings"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
)

// FormatOrder renders the operator summary of a placed order.
func FormatOrder(order *domain.Order) string {
	var b strings.Builder
	b.WriteString("New order!\n\n")
	fmt.Fprintf(&b, "Name: %s\n", order.Customer.DisplayName)
	fmt.Fprintf(&b, "Phone: %s\n", order.Customer.PhoneNumber)
	fmt.Fprintf(&b, "Address: %s\n", order.Customer.DeliveryAddress)
	fmt.Fprintf(&b, "Order: %s\n", order.ItemsSummary())
	fmt.Fprintf(&b, "Total: %d\n", order.Total)
	fmt.Fprintf(&b, "User ID: %s\n", order.UserID)
	fmt.Fprintf(&b, "Username: %s\n", order.DisplayHandle())
	fmt.Fprintf(&b, "Date: %s", order.Timestamp())
	return b.String()
}
