package mapper

import (
	catalogdomain "github.com/Apurer/go-order-bot/internal/domains/catalog/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/application"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
)

// EventRequest is an inbound chat message delivered over HTTP.
type EventRequest struct {
	UserID string `json:"userId" binding:"required"`
	Handle string `json:"handle,omitempty"`
	Text   string `json:"text" binding:"required"`
}

// EventResponse carries the replies the sender should see.
type EventResponse struct {
	Messages []string `json:"messages"`
	State    string   `json:"state"`
}

// MenuItem is the HTTP representation of a catalog entry.
type MenuItem struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// CartLine is one priced line of a cart.
type CartLine struct {
	Item      string `json:"item"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	LineTotal int64  `json:"lineTotal"`
}

// Cart is the priced cart of one user.
type Cart struct {
	UserID string     `json:"userId"`
	Lines  []CartLine `json:"lines"`
	Total  int64      `json:"total"`
	State  string     `json:"state"`
}

func ToEvent(req EventRequest) application.Event {
	return application.Event{
		Sender: domain.Sender{ID: domain.UserID(req.UserID), Handle: req.Handle},
		Text:   req.Text,
	}
}

func FromReply(reply application.Reply) EventResponse {
	messages := reply.Messages
	if messages == nil {
		messages = []string{}
	}
	return EventResponse{Messages: messages, State: reply.State.String()}
}

func FromMenu(items []catalogdomain.Item) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, item := range items {
		out = append(out, MenuItem{Name: item.Name, Price: item.Price})
	}
	return out
}

func FromCart(id domain.UserID, totals domain.CartTotals, state domain.CheckoutState) Cart {
	lines := make([]CartLine, 0, totals.Len())
	for line := range totals.Lines() {
		lines = append(lines, CartLine{
			Item:      line.Item,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
	}
	return Cart{UserID: string(id), Lines: lines, Total: totals.Total, State: state.String()}
}
