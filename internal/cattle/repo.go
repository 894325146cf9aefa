package cattle

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/internal/repo"
	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
	"github.com/dairydesk/dairydesk-backend/pkg/enums"
)

// Repository manages persistence for the herd registry.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, animal *models.Cattle) error
	Find(ctx context.Context, cattleID uuid.UUID) (*models.Cattle, error)
	FindByTag(ctx context.Context, tagNumber string) (*models.Cattle, error)
	List(ctx context.Context, status *enums.CattleStatus) ([]models.Cattle, error)
	Update(ctx context.Context, cattleID uuid.UUID, updates map[string]any) error
}

type repository struct {
	repo.Base
}

// NewRepository returns a cattle repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, animal *models.Cattle) error {
	return r.DB(ctx).Create(animal).Error
}

func (r *repository) Find(ctx context.Context, cattleID uuid.UUID) (*models.Cattle, error) {
	var animal models.Cattle
	if err := r.DB(ctx).First(&animal, "id = ?", cattleID).Error; err != nil {
		return nil, err
	}
	return &animal, nil
}

func (r *repository) FindByTag(ctx context.Context, tagNumber string) (*models.Cattle, error) {
	var animal models.Cattle
	if err := r.DB(ctx).First(&animal, "tag_number = ?", tagNumber).Error; err != nil {
		return nil, err
	}
	return &animal, nil
}

func (r *repository) List(ctx context.Context, status *enums.CattleStatus) ([]models.Cattle, error) {
	query := r.DB(ctx).Model(&models.Cattle{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var herd []models.Cattle
	if err := query.Order("tag_number ASC").Find(&herd).Error; err != nil {
		return nil, err
	}
	return herd, nil
}

func (r *repository) Update(ctx context.Context, cattleID uuid.UUID, updates map[string]any) error {
	result := r.DB(ctx).
		Model(&models.Cattle{}).
		Where("id = ?", cattleID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
