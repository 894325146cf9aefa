package customers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
	"github.com/dairydesk/dairydesk-backend/pkg/enums"
	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
)

// Service owns milk customers, sales and receipt collection. The customer's
// outstanding amount is always derived from entry history, never stored.
type Service interface {
	CreateCustomer(ctx context.Context, input CreateCustomerInput) (*models.Customer, error)
	GetCustomer(ctx context.Context, customerID uuid.UUID) (*models.Customer, error)
	ListCustomers(ctx context.Context, includeInactive bool) ([]models.Customer, error)
	UpdateCustomer(ctx context.Context, customerID uuid.UUID, input UpdateCustomerInput) (*models.Customer, error)

	RecordSale(ctx context.Context, input SaleInput) (*models.SaleEntry, error)
	DeleteSale(ctx context.Context, saleID uuid.UUID) error
	RecordReceipt(ctx context.Context, input ReceiptInput) (*models.ReceiptEntry, error)

	CustomerOutstanding(ctx context.Context, customerID uuid.UUID) (*OutstandingSummary, error)
}

// CreateCustomerInput carries a new customer registration.
type CreateCustomerInput struct {
	Name        string
	Phone       *string
	Address     *string
	DefaultRate decimal.Decimal
}

// UpdateCustomerInput lists the mutable customer fields.
type UpdateCustomerInput struct {
	Name        *string
	Phone       *string
	Address     *string
	DefaultRate *decimal.Decimal
	IsActive    *bool
}

// SaleInput carries one milk sale. Rate falls back to the customer's default
// when zero.
type SaleInput struct {
	CustomerID   uuid.UUID
	Date         time.Time
	Session      enums.MilkSession
	QuantityL    decimal.Decimal
	RatePerLiter decimal.Decimal
}

// ReceiptInput carries one customer collection.
type ReceiptInput struct {
	CustomerID      uuid.UUID
	Date            time.Time
	Amount          decimal.Decimal
	Mode            enums.PaymentMode
	ReferenceNumber *string
}

// OutstandingSummary is the derived receivable position for one customer.
type OutstandingSummary struct {
	CustomerID    uuid.UUID       `json:"customer_id"`
	Name          string          `json:"name"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalReceipts decimal.Decimal `json:"total_receipts"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

type service struct {
	repo Repository
}

// NewService builds the customer service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*models.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if input.DefaultRate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "default rate cannot be negative")
	}

	customer := &models.Customer{
		ID:          uuid.New(),
		Name:        name,
		Phone:       input.Phone,
		Address:     input.Address,
		DefaultRate: input.DefaultRate,
		IsActive:    true,
	}
	if err := s.repo.CreateCustomer(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert customer")
	}
	return customer, nil
}

func (s *service) GetCustomer(ctx context.Context, customerID uuid.UUID) (*models.Customer, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	customer, err := s.repo.FindCustomer(ctx, customerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func (s *service) ListCustomers(ctx context.Context, includeInactive bool) ([]models.Customer, error) {
	customers, err := s.repo.ListCustomers(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return customers, nil
}

func (s *service) UpdateCustomer(ctx context.Context, customerID uuid.UUID, input UpdateCustomerInput) (*models.Customer, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Address != nil {
		updates["address"] = *input.Address
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
		if err := s.repo.UpdateCustomer(ctx, customerID, updates); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
		}
	}
	return s.GetCustomer(ctx, customerID)
}

func (s *service) RecordSale(ctx context.Context, input SaleInput) (*models.SaleEntry, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date required")
	}
	if !input.Session.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid session %q", input.Session))
	}
	if !input.QuantityL.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}
	if input.RatePerLiter.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate cannot be negative")
	}

	customer, err := s.GetCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "customer is inactive")
	}

	rate := input.RatePerLiter
	if rate.IsZero() {
		rate = customer.DefaultRate
	}
	if !rate.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no sale rate available for customer")
	}

	sale := &models.SaleEntry{
		ID:           uuid.New(),
		CustomerID:   input.CustomerID,
		Date:         input.Date,
		Session:      input.Session,
		QuantityL:    input.QuantityL,
		RatePerLiter: rate,
		TotalAmount:  input.QuantityL.Mul(rate).Round(2),
	}
	if err := s.repo.CreateSale(ctx, sale); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert sale entry")
	}
	return sale, nil
}

func (s *service) DeleteSale(ctx context.Context, saleID uuid.UUID) error {
	if saleID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale id required")
	}
	if err := s.repo.DeleteSale(ctx, saleID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "sale entry not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete sale entry")
	}
	return nil
}

func (s *service) RecordReceipt(ctx context.Context, input ReceiptInput) (*models.ReceiptEntry, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	if !input.Mode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment mode %q", input.Mode))
	}

	if _, err := s.GetCustomer(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	receipt := &models.ReceiptEntry{
		ID:              uuid.New(),
		CustomerID:      input.CustomerID,
		Date:            input.Date,
		Amount:          input.Amount.Round(2),
		Mode:            input.Mode,
		ReferenceNumber: input.ReferenceNumber,
	}
	if err := s.repo.CreateReceipt(ctx, receipt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert receipt entry")
	}
	return receipt, nil
}

func (s *service) CustomerOutstanding(ctx context.Context, customerID uuid.UUID) (*OutstandingSummary, error) {
	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	sales, err := s.repo.SaleTotal(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum sales")
	}
	receipts, err := s.repo.ReceiptTotal(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum receipts")
	}

	return &OutstandingSummary{
		CustomerID:    customer.ID,
		Name:          customer.Name,
		TotalSales:    sales,
		TotalReceipts: receipts,
		Outstanding:   sales.Sub(receipts),
	}, nil
}
