package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
)

var _ ports.OrderLedger = (*OrderLedger)(nil)

// OrderLedger persists placed orders in PostgreSQL using GORM.
type OrderLedger struct {
	db *gorm.DB
}

// NewOrderLedger wires a PostgreSQL-backed ledger. Caller manages DB lifecycle
// and runs migrations.
func NewOrderLedger(db *gorm.DB) *OrderLedger {
	return &OrderLedger{db: db}
}

// orderRecord maps a placed order to the orders table. Lines keep the priced
// snapshot; ItemNames allows "orders containing X" queries without JSON.
type orderRecord struct {
	ID              string             `gorm:"primaryKey;column:id;type:uuid"`
	UserID          string             `gorm:"column:user_id;index"`
	Handle          string             `gorm:"column:handle"`
	DisplayName     string             `gorm:"column:display_name"`
	PhoneNumber     string             `gorm:"column:phone_number"`
	DeliveryAddress string             `gorm:"column:delivery_address"`
	Items           string             `gorm:"column:items"`
	ItemNames       pq.StringArray     `gorm:"column:item_names;type:text[]"`
	Lines           []domain.OrderLine `gorm:"column:lines;type:jsonb;serializer:json"`
	Total           int64              `gorm:"column:total"`
	PlacedAt        time.Time          `gorm:"column:placed_at;index"`
	CreatedAt       time.Time          `gorm:"column:created_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Append inserts the order. An existing ID is reported as ErrDuplicateOrder.
func (l *OrderLedger) Append(ctx context.Context, order *domain.Order) error {
	if err := l.ensureDB(); err != nil {
		return err
	}
	if order == nil {
		return errors.New("order is nil")
	}
	record := toRecord(order)
	result := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrDuplicateOrder
	}
	return nil
}

// List returns all orders, oldest first.
func (l *OrderLedger) List(ctx context.Context) ([]*domain.Order, error) {
	if err := l.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := l.db.WithContext(ctx).Order("placed_at ASC").Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		order, err := records[i].toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (l *OrderLedger) ensureDB() error {
	if l == nil || l.db == nil {
		return errors.New("postgres order ledger not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	names := make(pq.StringArray, 0, len(order.Lines))
	for _, line := range order.Lines {
		names = append(names, line.Item)
	}
	return orderRecord{
		ID:              order.ID.String(),
		UserID:          string(order.UserID),
		Handle:          order.Handle,
		DisplayName:     order.Customer.DisplayName,
		PhoneNumber:     order.Customer.PhoneNumber,
		DeliveryAddress: order.Customer.DeliveryAddress,
		Items:           order.ItemsSummary(),
		ItemNames:       names,
		Lines:           append([]domain.OrderLine(nil), order.Lines...),
		Total:           order.Total,
		PlacedAt:        order.PlacedAt.UTC(),
	}
}

func (r orderRecord) toDomain() (*domain.Order, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("order %q: %w", r.ID, err)
	}
	return &domain.Order{
		ID:     id,
		UserID: domain.UserID(r.UserID),
		Handle: r.Handle,
		Customer: domain.Profile{
			DisplayName:     r.DisplayName,
			DeliveryAddress: r.DeliveryAddress,
			PhoneNumber:     r.PhoneNumber,
		},
		Lines:    r.Lines,
		Total:    r.Total,
		PlacedAt: r.PlacedAt.UTC(),
	}, nil
}
