package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the order ledger schema.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&orderRecord{})
}

// orderLine mirrors domain.OrderLine as stored in the lines JSON column.
type orderLine struct {
	Item      string `json:"item"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	LineTotal int64  `json:"lineTotal"`
}

// Order schema mirrors the ordering Postgres adapter.
type orderRecord struct {
	ID              string         `gorm:"primaryKey;column:id;type:uuid"`
	UserID          string         `gorm:"column:user_id;index"`
	Handle          string         `gorm:"column:handle"`
	DisplayName     string         `gorm:"column:display_name"`
	PhoneNumber     string         `gorm:"column:phone_number"`
	DeliveryAddress string         `gorm:"column:delivery_address"`
	Items           string         `gorm:"column:items"`
	ItemNames       pq.StringArray `gorm:"column:item_names;type:text[]"`
	Lines           []orderLine    `gorm:"column:lines;type:jsonb;serializer:json"`
	Total           int64          `gorm:"column:total"`
	PlacedAt        time.Time      `gorm:"column:placed_at;index"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
}

func (orderRecord) TableName() string { return "orders" }
