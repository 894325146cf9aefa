package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dairydesk/dairydesk-backend/pkg/enums"
)

// SaleEntry records milk sold to a customer in one session.
type SaleEntry struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID   uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	Date         time.Time         `gorm:"column:date;not null;index"`
	Session      enums.MilkSession `gorm:"column:session;type:text;not null"`
	QuantityL    decimal.Decimal   `gorm:"column:quantity_l;type:numeric(10,2);not null"`
	RatePerLiter decimal.Decimal   `gorm:"column:rate_per_liter;type:numeric(8,2);not null"`
	TotalAmount  decimal.Decimal   `gorm:"column:total_amount;type:numeric(14,2);not null"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (SaleEntry) TableName() string {
	return "milk_sales"
}
