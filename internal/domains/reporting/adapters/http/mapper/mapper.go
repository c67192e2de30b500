package mapper

import (
	"time"

	orderingdomain "github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
)

// OrderLine is the HTTP representation of one order line.
type OrderLine struct {
	Item      string `json:"item"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	LineTotal int64  `json:"lineTotal"`
}

// Order is the HTTP representation of a persisted order.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Handle          string      `json:"handle,omitempty"`
	DisplayName     string      `json:"displayName"`
	PhoneNumber     string      `json:"phoneNumber"`
	DeliveryAddress string      `json:"deliveryAddress"`
	Items           string      `json:"items"`
	Lines           []OrderLine `json:"lines"`
	Total           int64       `json:"total"`
	PlacedAt        time.Time   `json:"placedAt"`
}

func FromOrder(o *orderingdomain.Order) Order {
	lines := make([]OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLine{Item: l.Item, Quantity: l.Quantity, UnitPrice: l.UnitPrice, LineTotal: l.LineTotal})
	}
	return Order{
		ID:              o.ID.String(),
		UserID:          string(o.UserID),
		Handle:          o.DisplayHandle(),
		DisplayName:     o.Customer.DisplayName,
		PhoneNumber:     o.Customer.PhoneNumber,
		DeliveryAddress: o.Customer.DeliveryAddress,
		Items:           o.ItemsSummary(),
		Lines:           lines,
		Total:           o.Total,
		PlacedAt:        o.PlacedAt,
	}
}

func FromOrders(orders []*orderingdomain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}
	return out
}
