package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-order-bot/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-bot/internal/domains/ordering/ports"
)

var _ ports.OrderLedger = (*OrderLedger)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id               TEXT PRIMARY KEY,
	display_name     TEXT NOT NULL,
	phone_number     TEXT NOT NULL,
	delivery_address TEXT NOT NULL,
	items            TEXT NOT NULL,
	total            TEXT NOT NULL,
	user_id          TEXT NOT NULL,
	handle           TEXT NOT NULL,
	placed_at        TEXT NOT NULL,
	lines_json       TEXT NOT NULL
)`

// OrderLedger stores one row per order in the same column order as the
// spreadsheet export, plus the order ID and the priced lines as JSON.
type OrderLedger struct {
	db *sql.DB
}

// NewOrderLedger creates the orders table when missing. Caller owns db.
func NewOrderLedger(ctx context.Context, db *sql.DB) (*OrderLedger, error) {
	if db == nil {
		return nil, errors.New("sqlite order ledger not configured")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create orders table: %w", err)
	}
	return &OrderLedger{db: db}, nil
}

func (l *OrderLedger) Append(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	lines, err := json.Marshal(order.Lines)
	if err != nil {
		return err
	}
	args := []any{order.ID.String()}
	for _, v := range order.Row() {
		args = append(args, v)
	}
	args = append(args, string(lines))

	res, err := l.db.ExecContext(ctx, `
		INSERT INTO orders (id, display_name, phone_number, delivery_address, items, total, user_id, handle, placed_at, lines_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrDuplicateOrder
	}
	return nil
}

// List returns orders in insertion order, which is PlacedAt order for a
// single writer.
func (l *OrderLedger) List(ctx context.Context) ([]*domain.Order, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, display_name, phone_number, delivery_address, total, user_id, handle, placed_at, lines_json
		FROM orders ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func scanOrder(rows *sql.Rows) (*domain.Order, error) {
	var (
		id, total, userID, handle, placedAt, lines string
		order                                      domain.Order
	)
	if err := rows.Scan(&id, &order.Customer.DisplayName, &order.Customer.PhoneNumber,
		&order.Customer.DeliveryAddress, &total, &userID, &handle, &placedAt, &lines); err != nil {
		return nil, err
	}
	var err error
	if order.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("order %q: %w", id, err)
	}
	if order.Total, err = strconv.ParseInt(total, 10, 64); err != nil {
		return nil, fmt.Errorf("order %s total: %w", id, err)
	}
	if order.PlacedAt, err = time.ParseInLocation(domain.TimestampLayout, placedAt, time.UTC); err != nil {
		return nil, fmt.Errorf("order %s placed_at: %w", id, err)
	}
	if err := json.Unmarshal([]byte(lines), &order.Lines); err != nil {
		return nil, fmt.Errorf("order %s lines: %w", id, err)
	}
	order.UserID = domain.UserID(userID)
	order.Handle = strings.TrimPrefix(handle, "@")
	return &order, nil
}
