package vendors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/internal/repo"
	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
)

// Repository manages persistence for milk vendors.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, vendor *models.Vendor) error
	Find(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error)
	List(ctx context.Context, includeInactive bool) ([]models.Vendor, error)
	Update(ctx context.Context, vendorID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, vendorID uuid.UUID) error
	HasLedgerEntries(ctx context.Context, vendorID uuid.UUID) (bool, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a vendor repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, vendor *models.Vendor) error {
	return r.DB(ctx).Create(vendor).Error
}

func (r *repository) Find(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.DB(ctx).First(&vendor, "id = ?", vendorID).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *repository) List(ctx context.Context, includeInactive bool) ([]models.Vendor, error) {
	query := r.DB(ctx).Model(&models.Vendor{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	var vendors []models.Vendor
	if err := query.Order("name ASC").Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *repository) Update(ctx context.Context, vendorID uuid.UUID, updates map[string]any) error {
	result := r.DB(ctx).
		Model(&models.Vendor{}).
		Where("id = ?", vendorID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, vendorID uuid.UUID) error {
	result := r.DB(ctx).Delete(&models.Vendor{}, "id = ?", vendorID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) HasLedgerEntries(ctx context.Context, vendorID uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).
		Model(&models.ProcurementEntry{}).
		Where("vendor_id = ?", vendorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.DB(ctx).
		Model(&models.PaymentEntry{}).
		Where("vendor_id = ?", vendorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
