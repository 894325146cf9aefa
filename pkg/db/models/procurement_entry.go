package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dairydesk/dairydesk-backend/pkg/enums"
)

// ProcurementEntry records milk bought from a vendor in one session.
// TotalAmount is always quantity * rate at the time the row was written.
type ProcurementEntry struct {
	ID            uuid.UUID                      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID      uuid.UUID                      `gorm:"column:vendor_id;type:uuid;not null;index"`
	Date          time.Time                      `gorm:"column:date;not null;index"`
	Session       enums.MilkSession              `gorm:"column:session;type:text;not null"`
	QuantityL     decimal.Decimal                `gorm:"column:quantity_l;type:numeric(10,2);not null"`
	FatPct        decimal.Decimal                `gorm:"column:fat_pct;type:numeric(5,2);not null;default:0"`
	SNFPct        decimal.Decimal                `gorm:"column:snf_pct;type:numeric(5,2);not null;default:0"`
	RatePerLiter  decimal.Decimal                `gorm:"column:rate_per_liter;type:numeric(8,2);not null"`
	TotalAmount   decimal.Decimal                `gorm:"column:total_amount;type:numeric(14,2);not null"`
	PaymentStatus enums.ProcurementPaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	CreatedAt     time.Time                      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                      `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProcurementEntry) TableName() string {
	return "milk_procurement"
}
