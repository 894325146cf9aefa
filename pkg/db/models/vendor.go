package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vendor is a milk supplier the dairy procures from. The three money fields
// are materialized aggregates maintained by the ledger service; they must
// always satisfy current_balance == total_procurement - total_paid.
type Vendor struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string          `gorm:"column:name;not null"`
	Phone            *string         `gorm:"column:phone"`
	Address          *string         `gorm:"column:address"`
	BankAccount      *string         `gorm:"column:bank_account"`
	BankIFSC         *string         `gorm:"column:bank_ifsc"`
	DefaultRate      decimal.Decimal `gorm:"column:default_rate;type:numeric(8,2);not null;default:0"`
	IsActive         bool            `gorm:"column:is_active;not null;default:true"`
	CurrentBalance   decimal.Decimal `gorm:"column:current_balance;type:numeric(14,2);not null;default:0"`
	TotalProcurement decimal.Decimal `gorm:"column:total_procurement;type:numeric(14,2);not null;default:0"`
	TotalPaid        decimal.Decimal `gorm:"column:total_paid;type:numeric(14,2);not null;default:0"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the historical table name used by the schema.
func (Vendor) TableName() string {
	return "milk_vendors"
}
