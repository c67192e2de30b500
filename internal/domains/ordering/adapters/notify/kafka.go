package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
)

const EventOrderPlaced = "order.placed"

var _ ports.AdminNotifier = (*Kafka)(nil)

// MessageWriter is the part of *kafka.Writer used for publishing.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// OrderPlacedEvent is the JSON value of every published message.
type OrderPlacedEvent struct {
	Event    string             `json:"event"`
	OrderID  string             `json:"orderId"`
	UserID   string             `json:"userId"`
	Handle   string             `json:"handle,omitempty"`
	Customer domain.Profile     `json:"customer"`
	Items    string             `json:"items"`
	Lines    []domain.OrderLine `json:"lines"`
	Total    int64              `json:"total"`
	PlacedAt time.Time          `json:"placedAt"`
}

// Kafka publishes order-placed events keyed by order ID.
type Kafka struct {
	writer MessageWriter
}

func NewKafka(writer MessageWriter) *Kafka {
	return &Kafka{writer: writer}
}

func (k *Kafka) Notify(ctx context.Context, order *domain.Order) error {
	if k == nil || k.writer == nil {
		return errors.New("kafka notifier not configured")
	}
	value, err := json.Marshal(NewOrderPlacedEvent(order))
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
		},
	})
}

func NewOrderPlacedEvent(order *domain.Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		Event:    EventOrderPlaced,
		OrderID:  order.ID.String(),
		UserID:   string(order.UserID),
		Handle:   order.Handle,
		Customer: order.Customer,
		Items:    order.ItemsSummary(),
		Lines:    order.Lines,
		Total:    order.Total,
		PlacedAt: order.PlacedAt,
	}
}
