package cron

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/internal/ledger"
	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
	"github.com/dairydesk/dairydesk-backend/pkg/logger"
	"github.com/dairydesk/dairydesk-backend/pkg/pagination"
)

type auditVendorState struct {
	vendor   models.Vendor
	procured decimal.Decimal
	paid     decimal.Decimal
}

type stubAuditRepo struct {
	states     map[uuid.UUID]*auditVendorState
	overwrites int
}

func newStubAuditRepo(states ...*auditVendorState) *stubAuditRepo {
	repo := &stubAuditRepo{states: make(map[uuid.UUID]*auditVendorState)}
	for _, state := range states {
		repo.states[state.vendor.ID] = state
	}
	return repo
}

func (s *stubAuditRepo) WithTx(tx *gorm.DB) ledger.Repository { return s }

func (s *stubAuditRepo) FindVendor(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	state, ok := s.states[vendorID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	vendor := state.vendor
	return &vendor, nil
}

func (s *stubAuditRepo) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	for _, state := range s.states {
		vendors = append(vendors, state.vendor)
	}
	return vendors, nil
}

func (s *stubAuditRepo) ListVendorsWithBalanceAbove(ctx context.Context, threshold decimal.Decimal) ([]models.Vendor, error) {
	panic("not implemented")
}

func (s *stubAuditRepo) ApplyVendorDeltas(ctx context.Context, vendorID uuid.UUID, balance, procurement, paid decimal.Decimal) error {
	panic("not implemented")
}

func (s *stubAuditRepo) OverwriteVendorAggregates(ctx context.Context, vendorID uuid.UUID, balance, procurement, paid decimal.Decimal) error {
	state, ok := s.states[vendorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	state.vendor.CurrentBalance = balance
	state.vendor.TotalProcurement = procurement
	state.vendor.TotalPaid = paid
	s.overwrites++
	return nil
}

func (s *stubAuditRepo) CreateProcurement(ctx context.Context, entry *models.ProcurementEntry) error {
	panic("not implemented")
}

func (s *stubAuditRepo) FindProcurement(ctx context.Context, entryID uuid.UUID) (*models.ProcurementEntry, error) {
	panic("not implemented")
}

func (s *stubAuditRepo) UpdateProcurement(ctx context.Context, entryID uuid.UUID, updates map[string]any) error {
	panic("not implemented")
}

func (s *stubAuditRepo) DeleteProcurement(ctx context.Context, entryID uuid.UUID) error {
	panic("not implemented")
}

func (s *stubAuditRepo) ListProcurements(ctx context.Context, filters ledger.EntryFilters, params pagination.Params) (*ledger.ProcurementList, error) {
	panic("not implemented")
}

func (s *stubAuditRepo) CreatePayment(ctx context.Context, entry *models.PaymentEntry) error {
	panic("not implemented")
}

func (s *stubAuditRepo) ListPayments(ctx context.Context, filters ledger.EntryFilters, params pagination.Params) (*ledger.PaymentList, error) {
	panic("not implemented")
}

func (s *stubAuditRepo) ProcurementTotal(ctx context.Context, vendorID uuid.UUID) (decimal.Decimal, error) {
	return s.states[vendorID].procured, nil
}

func (s *stubAuditRepo) PaymentTotal(ctx context.Context, vendorID uuid.UUID) (decimal.Decimal, error) {
	return s.states[vendorID].paid, nil
}

func auditState(balance, procured, paid int64) *auditVendorState {
	return &auditVendorState{
		vendor: models.Vendor{
			ID:               uuid.New(),
			Name:             "Audit Vendor",
			IsActive:         true,
			CurrentBalance:   decimal.NewFromInt(balance),
			TotalProcurement: decimal.NewFromInt(procured),
			TotalPaid:        decimal.NewFromInt(paid),
			CreatedAt:        time.Now(),
		},
		procured: decimal.NewFromInt(procured),
		paid:     decimal.NewFromInt(paid),
	}
}

func TestBalanceAuditLeavesCleanVendorsAlone(t *testing.T) {
	clean := auditState(700, 1000, 300)
	repo := newStubAuditRepo(clean)

	job, err := NewBalanceAuditJob(BalanceAuditParams{
		Repo:   repo,
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Repair: true,
	})
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	assert.Zero(t, repo.overwrites)
}

func TestBalanceAuditDetectsDriftWithoutRepair(t *testing.T) {
	drifted := auditState(999, 1000, 300)
	repo := newStubAuditRepo(drifted)

	job, err := NewBalanceAuditJob(BalanceAuditParams{
		Repo:   repo,
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
	})
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	assert.Zero(t, repo.overwrites, "repair must stay behind the flag")
	assert.True(t, repo.states[drifted.vendor.ID].vendor.CurrentBalance.Equal(decimal.NewFromInt(999)))
}

func TestBalanceAuditRepairsDrift(t *testing.T) {
	drifted := auditState(999, 1000, 300)
	repo := newStubAuditRepo(drifted)

	job, err := NewBalanceAuditJob(BalanceAuditParams{
		Repo:   repo,
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Repair: true,
	})
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, repo.overwrites)

	repaired := repo.states[drifted.vendor.ID].vendor
	assert.True(t, repaired.CurrentBalance.Equal(decimal.NewFromInt(700)),
		"got %s", repaired.CurrentBalance)
	assert.True(t, repaired.TotalProcurement.Equal(decimal.NewFromInt(1000)))
	assert.True(t, repaired.TotalPaid.Equal(decimal.NewFromInt(300)))
}
