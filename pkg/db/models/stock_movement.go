package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dairydesk/dairydesk-backend/pkg/enums"
)

// StockMovement is the audit trail behind every inventory quantity change.
type StockMovement struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID    uuid.UUID               `gorm:"column:item_id;type:uuid;not null;index"`
	Type      enums.StockMovementType `gorm:"column:type;type:text;not null"`
	Quantity  decimal.Decimal         `gorm:"column:quantity;type:numeric(12,2);not null"`
	Reason    *string                 `gorm:"column:reason"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}
