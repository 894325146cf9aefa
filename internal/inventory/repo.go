package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/internal/repo"
	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
)

// ErrInsufficientStock is returned when a stock-out would push an item's
// quantity below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// Repository manages persistence for inventory items and movements.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateItem(ctx context.Context, item *models.InventoryItem) error
	FindItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error)
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	ListLowStock(ctx context.Context) ([]models.InventoryItem, error)
	CreateMovement(ctx context.Context, movement *models.StockMovement) error
	ListMovements(ctx context.Context, itemID uuid.UUID) ([]models.StockMovement, error)

	// IncrementQuantity applies a relative stock-in update.
	IncrementQuantity(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal) error
	// DecrementQuantityGuarded applies a stock-out only when enough stock
	// remains; the guard lives in the WHERE clause so concurrent writers
	// cannot drive the quantity negative.
	DecrementQuantityGuarded(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal) error
}

type repository struct {
	repo.Base
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	return r.DB(ctx).Create(item).Error
}

func (r *repository) FindItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.DB(ctx).First(&item, "id = ?", itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := r.DB(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListLowStock(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := r.DB(ctx).
		Where("quantity <= low_stock_threshold").
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CreateMovement(ctx context.Context, movement *models.StockMovement) error {
	return r.DB(ctx).Create(movement).Error
}

func (r *repository) ListMovements(ctx context.Context, itemID uuid.UUID) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	if err := r.DB(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *repository) IncrementQuantity(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal) error {
	result := r.DB(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DecrementQuantityGuarded(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal) error {
	result := r.DB(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND quantity >= ?", itemID, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing item from an insufficient balance.
		var count int64
		if err := r.DB(ctx).
			Model(&models.InventoryItem{}).
			Where("id = ?", itemID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}
