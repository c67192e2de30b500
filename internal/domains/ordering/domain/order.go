package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout formats PlacedAt in persisted rows and notifications.
const TimestampLayout = "2006-01-02 15:04:05"

// OrderLine is one priced line of a placed order.
type OrderLine struct {
	Item      string `json:"item"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	LineTotal int64  `json:"lineTotal"`
}

// Order is the immutable snapshot produced when checkout completes.
type Order struct {
	ID       uuid.UUID   `json:"id"`
	UserID   UserID      `json:"userId"`
	Handle   string      `json:"handle,omitempty"`
	Customer Profile     `json:"customer"`
	Lines    []OrderLine `json:"lines"`
	Total    int64       `json:"total"`
	PlacedAt time.Time   `json:"placedAt"`
}

// NewOrder snapshots the session cart and profile. The session is not
// modified.
func NewOrder(session *Session, prices Pricer, placedAt time.Time) (*Order, error) {
	if session == nil || session.Cart == nil || session.Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	totals := session.Cart.Totals(prices)
	lines := make([]OrderLine, 0, totals.Len())
	for line := range totals.Lines() {
		lines = append(lines, OrderLine{
			Item:      line.Item,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
	}
	return &Order{
		ID:       uuid.New(),
		UserID:   session.UserID,
		Handle:   session.Handle,
		Customer: session.Profile,
		Lines:    lines,
		Total:    totals.Total,
		PlacedAt: placedAt,
	}, nil
}

// ItemsSummary renders the lines as "Plov x2, Tea x1".
func (o *Order) ItemsSummary() string {
	parts := make([]string, 0, len(o.Lines))
	for _, line := range o.Lines {
		parts = append(parts, fmt.Sprintf("%s x%d", line.Item, line.Quantity))
	}
	return strings.Join(parts, ", ")
}

// DisplayHandle renders the handle as "@name", or "" when unknown.
func (o *Order) DisplayHandle() string {
	if o.Handle == "" {
		return ""
	}
	return "@" + o.Handle
}

// Timestamp renders PlacedAt in UTC with TimestampLayout.
func (o *Order) Timestamp() string {
	return o.PlacedAt.UTC().Format(TimestampLayout)
}

// Row is the record written to row-oriented stores: name, phone, address,
// items, total, user id, handle, timestamp.
func (o *Order) Row() []string {
	return []string{
		o.Customer.DisplayName,
		o.Customer.PhoneNumber,
		o.Customer.DeliveryAddress,
		o.ItemsSummary(),
		strconv.FormatInt(o.Total, 10),
		string(o.UserID),
		o.DisplayHandle(),
		o.Timestamp(),
	}
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	out := *o
	out.Lines = append([]OrderLine(nil), o.Lines...)
	return &out
}
