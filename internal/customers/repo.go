package customers

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/internal/repo"
	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
)

// Repository manages persistence for customers, sales and receipts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCustomer(ctx context.Context, customer *models.Customer) error
	FindCustomer(ctx context.Context, customerID uuid.UUID) (*models.Customer, error)
	ListCustomers(ctx context.Context, includeInactive bool) ([]models.Customer, error)
	UpdateCustomer(ctx context.Context, customerID uuid.UUID, updates map[string]any) error

	CreateSale(ctx context.Context, sale *models.SaleEntry) error
	FindSale(ctx context.Context, saleID uuid.UUID) (*models.SaleEntry, error)
	DeleteSale(ctx context.Context, saleID uuid.UUID) error
	CreateReceipt(ctx context.Context, receipt *models.ReceiptEntry) error

	// SaleTotal and ReceiptTotal back the computed outstanding figure; there
	// is no materialized customer balance to keep in sync.
	SaleTotal(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
	ReceiptTotal(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a customer repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return r.DB(ctx).Create(customer).Error
}

func (r *repository) FindCustomer(ctx context.Context, customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).First(&customer, "id = ?", customerID).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) ListCustomers(ctx context.Context, includeInactive bool) ([]models.Customer, error) {
	query := r.DB(ctx).Model(&models.Customer{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	var customers []models.Customer
	if err := query.Order("name ASC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repository) UpdateCustomer(ctx context.Context, customerID uuid.UUID, updates map[string]any) error {
	result := r.DB(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateSale(ctx context.Context, sale *models.SaleEntry) error {
	return r.DB(ctx).Create(sale).Error
}

func (r *repository) FindSale(ctx context.Context, saleID uuid.UUID) (*models.SaleEntry, error) {
	var sale models.SaleEntry
	if err := r.DB(ctx).First(&sale, "id = ?", saleID).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *repository) DeleteSale(ctx context.Context, saleID uuid.UUID) error {
	result := r.DB(ctx).Delete(&models.SaleEntry{}, "id = ?", saleID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateReceipt(ctx context.Context, receipt *models.ReceiptEntry) error {
	return r.DB(ctx).Create(receipt).Error
}

func (r *repository) SaleTotal(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	return r.sumColumn(ctx, &models.SaleEntry{}, "total_amount", customerID)
}

func (r *repository) ReceiptTotal(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	return r.sumColumn(ctx, &models.ReceiptEntry{}, "amount", customerID)
}

func (r *repository) sumColumn(ctx context.Context, model any, column string, customerID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.DB(ctx).
		Model(model).
		Select("SUM(" + column + ")").
		Where("customer_id = ?", customerID).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
