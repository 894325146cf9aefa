package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem tracks feed, medicine and consumable stock. Quantity is
// adjusted only through atomic increments recorded as StockMovement rows.
type InventoryItem struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string          `gorm:"column:name;not null;uniqueIndex"`
	Unit              string          `gorm:"column:unit;not null"`
	Quantity          decimal.Decimal `gorm:"column:quantity;type:numeric(12,2);not null;default:0"`
	LowStockThreshold decimal.Decimal `gorm:"column:low_stock_threshold;type:numeric(12,2);not null;default:0"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}
