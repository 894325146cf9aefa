package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/internal/repo"
	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
)

// Repository manages persistence for the milk production log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.ProductionEntry) error
	Find(ctx context.Context, entryID uuid.UUID) (*models.ProductionEntry, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]models.ProductionEntry, error)
	Delete(ctx context.Context, entryID uuid.UUID) error
	TotalForDate(ctx context.Context, date time.Time) (decimal.Decimal, error)
	CattleExists(ctx context.Context, cattleID uuid.UUID) (bool, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a production repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, entry *models.ProductionEntry) error {
	return r.DB(ctx).Create(entry).Error
}

func (r *repository) Find(ctx context.Context, entryID uuid.UUID) (*models.ProductionEntry, error) {
	var entry models.ProductionEntry
	if err := r.DB(ctx).First(&entry, "id = ?", entryID).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) ListByDateRange(ctx context.Context, from, to time.Time) ([]models.ProductionEntry, error) {
	var entries []models.ProductionEntry
	if err := r.DB(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) Delete(ctx context.Context, entryID uuid.UUID) error {
	result := r.DB(ctx).Delete(&models.ProductionEntry{}, "id = ?", entryID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) TotalForDate(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.DB(ctx).
		Model(&models.ProductionEntry{}).
		Select("SUM(quantity_l)").
		Where("date = ?", date).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *repository) CattleExists(ctx context.Context, cattleID uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).
		Model(&models.Cattle{}).
		Where("id = ?", cattleID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
