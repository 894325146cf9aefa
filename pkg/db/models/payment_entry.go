package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dairydesk/dairydesk-backend/pkg/enums"
)

// PaymentEntry records money paid out to a vendor. Payments are immutable
// history: the schema has no update or delete path for them.
type PaymentEntry struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID        uuid.UUID         `gorm:"column:vendor_id;type:uuid;not null;index"`
	Date            time.Time         `gorm:"column:date;not null;index"`
	Amount          decimal.Decimal   `gorm:"column:amount;type:numeric(14,2);not null"`
	Mode            enums.PaymentMode `gorm:"column:mode;type:text;not null"`
	ReferenceNumber *string           `gorm:"column:reference_number"`
	Notes           *string           `gorm:"column:notes"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (PaymentEntry) TableName() string {
	return "vendor_payments"
}
