package vendors

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns vendor onboarding and lifecycle.
type Service interface {
	CreateVendor(ctx context.Context, input CreateVendorInput) (*models.Vendor, error)
	GetVendor(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error)
	ListVendors(ctx context.Context, includeInactive bool) ([]models.Vendor, error)
	UpdateVendor(ctx context.Context, vendorID uuid.UUID, input UpdateVendorInput) (*models.Vendor, error)
	DeleteVendor(ctx context.Context, vendorID uuid.UUID) error
}

// CreateVendorInput carries a new vendor registration.
type CreateVendorInput struct {
	Name        string
	Phone       *string
	Address     *string
	BankAccount *string
	BankIFSC    *string
	DefaultRate decimal.Decimal
}

// UpdateVendorInput lists the mutable vendor fields. Nil pointers leave the
// stored value untouched.
type UpdateVendorInput struct {
	Name        *string
	Phone       *string
	Address     *string
	BankAccount *string
	BankIFSC    *string
	DefaultRate *decimal.Decimal
	IsActive    *bool
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the vendor service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendors repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateVendor(ctx context.Context, input CreateVendorInput) (*models.Vendor, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor name required")
	}
	if input.DefaultRate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "default rate cannot be negative")
	}

	vendor := &models.Vendor{
		ID:          uuid.New(),
		Name:        name,
		Phone:       input.Phone,
		Address:     input.Address,
		BankAccount: input.BankAccount,
		BankIFSC:    input.BankIFSC,
		DefaultRate: input.DefaultRate,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, vendor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert vendor")
	}
	return vendor, nil
}

func (s *service) GetVendor(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	vendor, err := s.repo.Find(ctx, vendorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return vendor, nil
}

func (s *service) ListVendors(ctx context.Context, includeInactive bool) ([]models.Vendor, error) {
	vendors, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	return vendors, nil
}

func (s *service) UpdateVendor(ctx context.Context, vendorID uuid.UUID, input UpdateVendorInput) (*models.Vendor, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.BankAccount != nil {
		updates["bank_account"] = *input.BankAccount
	}
	if input.BankIFSC != nil {
		updates["bank_ifsc"] = *input.BankIFSC
	}
	if input.DefaultRate != nil {
		if input.DefaultRate.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "default rate cannot be negative")
		}
		updates["default_rate"] = *input.DefaultRate
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, vendorID, updates); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor")
		}
	}
	return s.GetVendor(ctx, vendorID)
}

func (s *service) DeleteVendor(ctx context.Context, vendorID uuid.UUID) error {
	if vendorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		referenced, err := repo.HasLedgerEntries(ctx, vendorID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check vendor ledger entries")
		}
		if referenced {
			// History must stay reconstructable; deactivate instead.
			return pkgerrors.New(pkgerrors.CodeStateConflict, "vendor has ledger entries, deactivate instead")
		}

		if err := repo.Delete(ctx, vendorID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vendor")
		}
		return nil
	})
}
