package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dairydesk/dairydesk-backend/pkg/enums"
)

// ProductionEntry logs milk produced by the farm's own herd. CattleID is
// optional: bulk-tank entries are recorded without an animal reference.
type ProductionEntry struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CattleID  *uuid.UUID        `gorm:"column:cattle_id;type:uuid;index"`
	Date      time.Time         `gorm:"column:date;not null;index"`
	Session   enums.MilkSession `gorm:"column:session;type:text;not null"`
	QuantityL decimal.Decimal   `gorm:"column:quantity_l;type:numeric(10,2);not null"`
	Notes     *string           `gorm:"column:notes"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductionEntry) TableName() string {
	return "milk_production"
}
