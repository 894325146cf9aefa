package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dairydesk/dairydesk-backend/pkg/enums"
)

// Cattle is one animal in the herd registry.
type Cattle struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TagNumber   string             `gorm:"column:tag_number;not null;uniqueIndex"`
	Name        *string            `gorm:"column:name"`
	Breed       *string            `gorm:"column:breed"`
	DateOfBirth *time.Time         `gorm:"column:date_of_birth"`
	Status      enums.CattleStatus `gorm:"column:status;type:text;not null;default:'active'"`
	LactationNo int                `gorm:"column:lactation_no;not null;default:0"`
	Notes       *string            `gorm:"column:notes"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Cattle) TableName() string {
	return "cattle"
}
