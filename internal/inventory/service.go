package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/pkg/db"
	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
	"github.com/dairydesk/dairydesk-backend/pkg/enums"
	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns feed/medicine stock. Every quantity change goes through a
// movement row and an atomic relative update in the same transaction.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*models.InventoryItem, error)
	GetItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error)
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	ListLowStock(ctx context.Context) ([]models.InventoryItem, error)
	RecordMovement(ctx context.Context, input MovementInput) (*models.StockMovement, error)
	ListMovements(ctx context.Context, itemID uuid.UUID) ([]models.StockMovement, error)
}

// CreateItemInput carries a new inventory item.
type CreateItemInput struct {
	Name              string
	Unit              string
	OpeningQuantity   decimal.Decimal
	LowStockThreshold decimal.Decimal
}

// MovementInput carries one stock-in or stock-out.
type MovementInput struct {
	ItemID   uuid.UUID
	Type     enums.StockMovementType
	Quantity decimal.Decimal
	Reason   *string
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the inventory service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*models.InventoryItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item unit required")
	}
	if input.OpeningQuantity.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "opening quantity cannot be negative")
	}
	if input.LowStockThreshold.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "low stock threshold cannot be negative")
	}

	item := &models.InventoryItem{
		ID:                uuid.New(),
		Name:              name,
		Unit:              unit,
		Quantity:          input.OpeningQuantity,
		LowStockThreshold: input.LowStockThreshold,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("item %q already exists", name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert inventory item")
	}
	return item, nil
}

func (s *service) GetItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	return item, nil
}

func (s *service) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory items")
	}
	return items, nil
}

func (s *service) ListLowStock(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock items")
	}
	return items, nil
}

func (s *service) RecordMovement(ctx context.Context, input MovementInput) (*models.StockMovement, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid movement type %q", input.Type))
	}
	if !input.Quantity.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}

	movement := &models.StockMovement{
		ID:       uuid.New(),
		ItemID:   input.ItemID,
		Type:     input.Type,
		Quantity: input.Quantity,
		Reason:   input.Reason,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		switch input.Type {
		case enums.StockMovementIn:
			err = repo.IncrementQuantity(ctx, input.ItemID, input.Quantity)
		case enums.StockMovementOut:
			err = repo.DecrementQuantityGuarded(ctx, input.ItemID, input.Quantity)
		}
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
			}
			if errors.Is(err, ErrInsufficientStock) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock for movement")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust stock quantity")
		}

		if err := repo.CreateMovement(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert stock movement")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (s *service) ListMovements(ctx context.Context, itemID uuid.UUID) ([]models.StockMovement, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	movements, err := s.repo.ListMovements(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock movements")
	}
	return movements, nil
}
