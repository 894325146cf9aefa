package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer buys milk from the dairy. Unlike vendors, customer balances are
// not materialized; outstanding amounts are summed from sales and receipts
// at read time.
type Customer struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Phone       *string         `gorm:"column:phone"`
	Address     *string         `gorm:"column:address"`
	DefaultRate decimal.Decimal `gorm:"column:default_rate;type:numeric(8,2);not null;default:0"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Customer) TableName() string {
	return "customers"
}
