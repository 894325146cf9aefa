package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dairydesk/dairydesk-backend/pkg/enums"
)

// ReceiptEntry records money collected from a customer against their dues.
type ReceiptEntry struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID      uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	Date            time.Time         `gorm:"column:date;not null;index"`
	Amount          decimal.Decimal   `gorm:"column:amount;type:numeric(14,2);not null"`
	Mode            enums.PaymentMode `gorm:"column:mode;type:text;not null"`
	ReferenceNumber *string           `gorm:"column:reference_number"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (ReceiptEntry) TableName() string {
	return "customer_receipts"
}
