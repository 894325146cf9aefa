package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
	"github.com/dairydesk/dairydesk-backend/pkg/enums"
	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
	"github.com/dairydesk/dairydesk-backend/pkg/metrics"
	"github.com/dairydesk/dairydesk-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// DefaultBulkPaymentMaxItems bounds a bulk payment batch when config does not.
const DefaultBulkPaymentMaxItems = 100

// Service owns every write against the vendor ledger. All mutations keep the
// vendor's materialized aggregates and the entry tables consistent inside a
// single transaction.
type Service interface {
	RecordProcurement(ctx context.Context, input ProcurementInput) (*models.ProcurementEntry, error)
	UpdateProcurement(ctx context.Context, entryID uuid.UUID, input ProcurementUpdateInput) (*models.ProcurementEntry, error)
	DeleteProcurement(ctx context.Context, entryID uuid.UUID) error
	GetProcurement(ctx context.Context, entryID uuid.UUID) (*models.ProcurementEntry, error)
	ListProcurements(ctx context.Context, filters EntryFilters, params pagination.Params) (*ProcurementList, error)

	RecordPayment(ctx context.Context, input PaymentInput) (*models.PaymentEntry, error)
	RecordBulkPayments(ctx context.Context, inputs []PaymentInput) ([]BulkPaymentResult, error)
	ListPayments(ctx context.Context, filters EntryFilters, params pagination.Params) (*PaymentList, error)

	VendorSummary(ctx context.Context, vendorID uuid.UUID) (*VendorSummary, error)
	VendorsWithOutstandingBalance(ctx context.Context, threshold decimal.Decimal) ([]VendorSummary, error)
}

// ProcurementInput carries one milk collection to record.
type ProcurementInput struct {
	VendorID     uuid.UUID
	Date         time.Time
	Session      enums.MilkSession
	QuantityL    decimal.Decimal
	FatPct       decimal.Decimal
	SNFPct       decimal.Decimal
	RatePerLiter decimal.Decimal
}

// ProcurementUpdateInput lists the fields a procurement entry allows changing.
// Nil pointers leave the stored value untouched.
type ProcurementUpdateInput struct {
	Date          *time.Time
	Session       *enums.MilkSession
	QuantityL     *decimal.Decimal
	FatPct        *decimal.Decimal
	SNFPct        *decimal.Decimal
	RatePerLiter  *decimal.Decimal
	PaymentStatus *enums.ProcurementPaymentStatus
}

// PaymentInput carries one vendor payout to record.
type PaymentInput struct {
	VendorID        uuid.UUID
	Date            time.Time
	Amount          decimal.Decimal
	Mode            enums.PaymentMode
	ReferenceNumber *string
	Notes           *string
}

// BulkPaymentResult reports the outcome for one item of a bulk batch, in the
// order the items were submitted.
type BulkPaymentResult struct {
	Index   int                  `json:"index"`
	Payment *models.PaymentEntry `json:"payment,omitempty"`
	Error   *BulkItemError       `json:"error,omitempty"`
}

// BulkItemError is the serializable failure attached to a bulk item.
type BulkItemError struct {
	Code    pkgerrors.Code `json:"code"`
	Message string         `json:"message"`
}

// VendorSummary exposes the materialized financial position of a vendor.
type VendorSummary struct {
	VendorID         uuid.UUID       `json:"vendor_id"`
	Name             string          `json:"name"`
	IsActive         bool            `json:"is_active"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	TotalProcurement decimal.Decimal `json:"total_procurement"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
}

type service struct {
	repo         Repository
	tx           txRunner
	metrics      *metrics.LedgerMetrics
	bulkMaxItems int
}

// ServiceParams wires the ledger service dependencies.
type ServiceParams struct {
	Repo         Repository
	Tx           txRunner
	Metrics      *metrics.LedgerMetrics
	BulkMaxItems int
}

// NewService builds the ledger service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.BulkMaxItems <= 0 {
		params.BulkMaxItems = DefaultBulkPaymentMaxItems
	}
	return &service{
		repo:         params.Repo,
		tx:           params.Tx,
		metrics:      params.Metrics,
		bulkMaxItems: params.BulkMaxItems,
	}, nil
}

// lineTotal computes quantity x rate rounded to currency precision.
func lineTotal(quantity, rate decimal.Decimal) decimal.Decimal {
	return quantity.Mul(rate).Round(2)
}

func (s *service) RecordProcurement(ctx context.Context, input ProcurementInput) (*models.ProcurementEntry, error) {
	entry, err := s.recordProcurement(ctx, input)
	s.observe("record_procurement", err)
	return entry, err
}

func (s *service) recordProcurement(ctx context.Context, input ProcurementInput) (*models.ProcurementEntry, error) {
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
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
	if !input.RatePerLiter.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate must be greater than zero")
	}

	entry := &models.ProcurementEntry{
		ID:            uuid.New(),
		VendorID:      input.VendorID,
		Date:          input.Date,
		Session:       input.Session,
		QuantityL:     input.QuantityL,
		FatPct:        input.FatPct,
		SNFPct:        input.SNFPct,
		RatePerLiter:  input.RatePerLiter,
		TotalAmount:   lineTotal(input.QuantityL, input.RatePerLiter),
		PaymentStatus: enums.ProcurementPaymentStatusPending,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		vendor, err := repo.FindVendor(ctx, input.VendorID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
		}
		if !vendor.IsActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "vendor is inactive")
		}

		if err := repo.CreateProcurement(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert procurement entry")
		}
		if err := repo.ApplyVendorDeltas(ctx, input.VendorID, entry.TotalAmount, entry.TotalAmount, decimal.Zero); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply vendor balance delta")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) UpdateProcurement(ctx context.Context, entryID uuid.UUID, input ProcurementUpdateInput) (*models.ProcurementEntry, error) {
	entry, err := s.updateProcurement(ctx, entryID, input)
	s.observe("update_procurement", err)
	return entry, err
}

func (s *service) updateProcurement(ctx context.Context, entryID uuid.UUID, input ProcurementUpdateInput) (*models.ProcurementEntry, error) {
	if entryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entry id required")
	}
	if input.Session != nil && !input.Session.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid session %q", *input.Session))
	}
	if input.QuantityL != nil && !input.QuantityL.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}
	if input.RatePerLiter != nil && !input.RatePerLiter.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate must be greater than zero")
	}
	if input.PaymentStatus != nil && !input.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment status %q", *input.PaymentStatus))
	}

	var updated *models.ProcurementEntry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		entry, err := repo.FindProcurement(ctx, entryID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "procurement entry not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load procurement entry")
		}

		updates := map[string]any{}
		if input.Date != nil {
			entry.Date = *input.Date
			updates["date"] = *input.Date
		}
		if input.Session != nil {
			entry.Session = *input.Session
			updates["session"] = *input.Session
		}
		if input.FatPct != nil {
			entry.FatPct = *input.FatPct
			updates["fat_pct"] = *input.FatPct
		}
		if input.SNFPct != nil {
			entry.SNFPct = *input.SNFPct
			updates["snf_pct"] = *input.SNFPct
		}
		if input.PaymentStatus != nil {
			entry.PaymentStatus = *input.PaymentStatus
			updates["payment_status"] = *input.PaymentStatus
		}

		oldTotal := entry.TotalAmount
		if input.QuantityL != nil {
			entry.QuantityL = *input.QuantityL
			updates["quantity_l"] = *input.QuantityL
		}
		if input.RatePerLiter != nil {
			entry.RatePerLiter = *input.RatePerLiter
			updates["rate_per_liter"] = *input.RatePerLiter
		}
		if input.QuantityL != nil || input.RatePerLiter != nil {
			entry.TotalAmount = lineTotal(entry.QuantityL, entry.RatePerLiter)
			updates["total_amount"] = entry.TotalAmount
		}

		if len(updates) == 0 {
			updated = entry
			return nil
		}

		if err := repo.UpdateProcurement(ctx, entryID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update procurement entry")
		}

		// The vendor balance moves by the difference between the new and the
		// old line total, never by a full recompute.
		delta := entry.TotalAmount.Sub(oldTotal)
		if !delta.IsZero() {
			if err := repo.ApplyVendorDeltas(ctx, entry.VendorID, delta, delta, decimal.Zero); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply vendor balance delta")
			}
		}

		updated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) DeleteProcurement(ctx context.Context, entryID uuid.UUID) error {
	err := s.deleteProcurement(ctx, entryID)
	s.observe("delete_procurement", err)
	return err
}

func (s *service) deleteProcurement(ctx context.Context, entryID uuid.UUID) error {
	if entryID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "entry id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		entry, err := repo.FindProcurement(ctx, entryID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "procurement entry not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load procurement entry")
		}

		if err := repo.DeleteProcurement(ctx, entryID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete procurement entry")
		}
		reversal := entry.TotalAmount.Neg()
		if err := repo.ApplyVendorDeltas(ctx, entry.VendorID, reversal, reversal, decimal.Zero); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reverse vendor balance delta")
		}
		return nil
	})
}

func (s *service) GetProcurement(ctx context.Context, entryID uuid.UUID) (*models.ProcurementEntry, error) {
	if entryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entry id required")
	}
	entry, err := s.repo.FindProcurement(ctx, entryID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "procurement entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load procurement entry")
	}
	return entry, nil
}

func (s *service) ListProcurements(ctx context.Context, filters EntryFilters, params pagination.Params) (*ProcurementList, error) {
	list, err := s.repo.ListProcurements(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list procurement entries")
	}
	return list, nil
}

func (s *service) RecordPayment(ctx context.Context, input PaymentInput) (*models.PaymentEntry, error) {
	entry, err := s.recordPayment(ctx, input)
	s.observe("record_payment", err)
	return entry, err
}

func (s *service) recordPayment(ctx context.Context, input PaymentInput) (*models.PaymentEntry, error) {
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
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

	entry := &models.PaymentEntry{
		ID:              uuid.New(),
		VendorID:        input.VendorID,
		Date:            input.Date,
		Amount:          input.Amount.Round(2),
		Mode:            input.Mode,
		ReferenceNumber: input.ReferenceNumber,
		Notes:           input.Notes,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindVendor(ctx, input.VendorID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
		}

		if err := repo.CreatePayment(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert payment entry")
		}
		// Overpayment is allowed: the balance may go negative.
		if err := repo.ApplyVendorDeltas(ctx, input.VendorID, entry.Amount.Neg(), decimal.Zero, entry.Amount); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply vendor balance delta")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) RecordBulkPayments(ctx context.Context, inputs []PaymentInput) ([]BulkPaymentResult, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one payment required")
	}
	if len(inputs) > s.bulkMaxItems {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("batch exceeds the %d item limit", s.bulkMaxItems))
	}

	// Best effort: every item runs in its own transaction and a failure never
	// rolls back the items recorded before it.
	results := make([]BulkPaymentResult, 0, len(inputs))
	var batchErr error
	for i, input := range inputs {
		result := BulkPaymentResult{Index: i}
		payment, err := s.RecordPayment(ctx, input)
		if err != nil {
			result.Error = bulkItemError(err)
			batchErr = multierr.Append(batchErr, fmt.Errorf("item %d: %w", i, err))
		} else {
			result.Payment = payment
		}
		results = append(results, result)
	}
	return results, batchErr
}

func bulkItemError(err error) *BulkItemError {
	if typed := pkgerrors.As(err); typed != nil {
		return &BulkItemError{Code: typed.Code(), Message: typed.Message()}
	}
	return &BulkItemError{Code: pkgerrors.CodeInternal, Message: "payment failed"}
}

func (s *service) ListPayments(ctx context.Context, filters EntryFilters, params pagination.Params) (*PaymentList, error) {
	list, err := s.repo.ListPayments(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment entries")
	}
	return list, nil
}

func (s *service) VendorSummary(ctx context.Context, vendorID uuid.UUID) (*VendorSummary, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	vendor, err := s.repo.FindVendor(ctx, vendorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	summary := summarize(vendor)
	return &summary, nil
}

func (s *service) VendorsWithOutstandingBalance(ctx context.Context, threshold decimal.Decimal) ([]VendorSummary, error) {
	vendors, err := s.repo.ListVendorsWithBalanceAbove(ctx, threshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors by balance")
	}
	summaries := make([]VendorSummary, 0, len(vendors))
	for i := range vendors {
		summaries = append(summaries, summarize(&vendors[i]))
	}
	return summaries, nil
}

func summarize(vendor *models.Vendor) VendorSummary {
	return VendorSummary{
		VendorID:         vendor.ID,
		Name:             vendor.Name,
		IsActive:         vendor.IsActive,
		CurrentBalance:   vendor.CurrentBalance,
		TotalProcurement: vendor.TotalProcurement,
		TotalPaid:        vendor.TotalPaid,
	}
}

func (s *service) observe(op string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	s.metrics.IncOperation(op, result)
}
