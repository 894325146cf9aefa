package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
	"github.com/dairydesk/dairydesk-backend/pkg/enums"
	"github.com/dairydesk/dairydesk-backend/pkg/pagination"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	vendors := `
CREATE TABLE IF NOT EXISTS milk_vendors (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT,
  address TEXT,
  bank_account TEXT,
  bank_ifsc TEXT,
  default_rate NUMERIC NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  current_balance NUMERIC NOT NULL DEFAULT 0,
  total_procurement NUMERIC NOT NULL DEFAULT 0,
  total_paid NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	procurement := `
CREATE TABLE IF NOT EXISTS milk_procurement (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  date DATETIME NOT NULL,
  session TEXT NOT NULL,
  quantity_l NUMERIC NOT NULL,
  fat_pct NUMERIC NOT NULL DEFAULT 0,
  snf_pct NUMERIC NOT NULL DEFAULT 0,
  rate_per_liter NUMERIC NOT NULL,
  total_amount NUMERIC NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`
	payments := `
CREATE TABLE IF NOT EXISTS vendor_payments (
  id TEXT PRIMARY KEY,
  vendor_id TEXT NOT NULL,
  date DATETIME NOT NULL,
  amount NUMERIC NOT NULL,
  mode TEXT NOT NULL,
  reference_number TEXT,
  notes TEXT,
  created_at DATETIME
);`
	for _, stmt := range []string{vendors, procurement, payments} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedVendor(t *testing.T, db *gorm.DB) *models.Vendor {
	t.Helper()
	vendor := &models.Vendor{
		ID:       uuid.New(),
		Name:     "Kisan Dairy",
		IsActive: true,
	}
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func TestApplyVendorDeltasAccumulates(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	vendor := seedVendor(t, db)
	ctx := context.Background()

	require.NoError(t, repo.ApplyVendorDeltas(ctx, vendor.ID,
		decimal.NewFromInt(1000), decimal.NewFromInt(1000), decimal.Zero))
	require.NoError(t, repo.ApplyVendorDeltas(ctx, vendor.ID,
		decimal.NewFromInt(-300), decimal.Zero, decimal.NewFromInt(300)))

	stored, err := repo.FindVendor(ctx, vendor.ID)
	require.NoError(t, err)
	assert.True(t, stored.CurrentBalance.Equal(decimal.NewFromInt(700)), "got %s", stored.CurrentBalance)
	assert.True(t, stored.TotalProcurement.Equal(decimal.NewFromInt(1000)))
	assert.True(t, stored.TotalPaid.Equal(decimal.NewFromInt(300)))
}

func TestApplyVendorDeltasUnknownVendor(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)

	err := repo.ApplyVendorDeltas(context.Background(), uuid.New(),
		decimal.NewFromInt(10), decimal.NewFromInt(10), decimal.Zero)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOverwriteVendorAggregates(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	vendor := seedVendor(t, db)
	ctx := context.Background()

	require.NoError(t, repo.OverwriteVendorAggregates(ctx, vendor.ID,
		decimal.NewFromInt(50), decimal.NewFromInt(150), decimal.NewFromInt(100)))

	stored, err := repo.FindVendor(ctx, vendor.ID)
	require.NoError(t, err)
	assert.True(t, stored.CurrentBalance.Equal(decimal.NewFromInt(50)))
	assert.True(t, stored.TotalProcurement.Equal(decimal.NewFromInt(150)))
	assert.True(t, stored.TotalPaid.Equal(decimal.NewFromInt(100)))
}

func TestLedgerLifecycleKeepsInvariant(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	vendor := seedVendor(t, db)
	ctx := context.Background()

	svc, err := NewService(ServiceParams{Repo: repo, Tx: gormTxRunner{db: db}})
	require.NoError(t, err)

	first, err := svc.RecordProcurement(ctx, ProcurementInput{
		VendorID:     vendor.ID,
		Date:         time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Session:      enums.MilkSessionMorning,
		QuantityL:    decimal.NewFromInt(50),
		RatePerLiter: decimal.NewFromInt(45),
	})
	require.NoError(t, err)

	_, err = svc.RecordProcurement(ctx, ProcurementInput{
		VendorID:     vendor.ID,
		Date:         time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Session:      enums.MilkSessionEvening,
		QuantityL:    decimal.NewFromInt(30),
		RatePerLiter: decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, PaymentInput{
		VendorID: vendor.ID,
		Date:     time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		Amount:   decimal.NewFromInt(2000),
		Mode:     enums.PaymentModeBank,
	})
	require.NoError(t, err)

	newRate := decimal.NewFromInt(50)
	_, err = svc.UpdateProcurement(ctx, first.ID, ProcurementUpdateInput{RatePerLiter: &newRate})
	require.NoError(t, err)

	assertInvariant := func() {
		stored, err := repo.FindVendor(ctx, vendor.ID)
		require.NoError(t, err)
		procured, err := repo.ProcurementTotal(ctx, vendor.ID)
		require.NoError(t, err)
		paid, err := repo.PaymentTotal(ctx, vendor.ID)
		require.NoError(t, err)

		assert.True(t, stored.TotalProcurement.Equal(procured),
			"materialized %s vs summed %s", stored.TotalProcurement, procured)
		assert.True(t, stored.TotalPaid.Equal(paid))
		assert.True(t, stored.CurrentBalance.Equal(procured.Sub(paid)),
			"materialized %s vs derived %s", stored.CurrentBalance, procured.Sub(paid))
	}
	assertInvariant()

	require.NoError(t, svc.DeleteProcurement(ctx, first.ID))
	assertInvariant()
}

func TestListProcurementsFiltersAndPaginates(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	vendor := seedVendor(t, db)
	other := seedVendor(t, db)
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := &models.ProcurementEntry{
			ID:            uuid.New(),
			VendorID:      vendor.ID,
			Date:          base.AddDate(0, 0, i),
			Session:       enums.MilkSessionMorning,
			QuantityL:     decimal.NewFromInt(10),
			RatePerLiter:  decimal.NewFromInt(40),
			TotalAmount:   decimal.NewFromInt(400),
			PaymentStatus: enums.ProcurementPaymentStatusPending,
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.CreateProcurement(ctx, entry))
	}
	require.NoError(t, repo.CreateProcurement(ctx, &models.ProcurementEntry{
		ID:            uuid.New(),
		VendorID:      other.ID,
		Date:          base,
		Session:       enums.MilkSessionMorning,
		QuantityL:     decimal.NewFromInt(5),
		RatePerLiter:  decimal.NewFromInt(40),
		TotalAmount:   decimal.NewFromInt(200),
		PaymentStatus: enums.ProcurementPaymentStatusPending,
		CreatedAt:     base,
	}))

	page, err := repo.ListProcurements(ctx, EntryFilters{VendorID: &vendor.ID}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextCursor)
	for _, item := range page.Items {
		assert.Equal(t, vendor.ID, item.VendorID)
	}

	rest, err := repo.ListProcurements(ctx, EntryFilters{VendorID: &vendor.ID}, pagination.Params{
		Limit:  2,
		Cursor: page.NextCursor,
	})
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
	assert.Empty(t, rest.NextCursor)

	from := base.AddDate(0, 0, 1)
	filtered, err := repo.ListProcurements(ctx, EntryFilters{VendorID: &vendor.ID, DateFrom: &from}, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, filtered.Items, 2)
}

func TestPaymentTotalEmptyVendor(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewRepository(db)
	vendor := seedVendor(t, db)

	total, err := repo.PaymentTotal(context.Background(), vendor.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestConcurrentPaymentsAgainstDatabase(t *testing.T) {
	db := setupLedgerTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// sqlite allows a single writer; one pooled connection queues the
	// transactions instead of surfacing busy errors.
	sqlDB.SetMaxOpenConns(1)

	repo := NewRepository(db)
	vendor := seedVendor(t, db)
	svc, err := NewService(ServiceParams{Repo: repo, Tx: gormTxRunner{db: db}})
	require.NoError(t, err)

	const workers = 10
	date := time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 1; i <= workers; i++ {
		wg.Add(1)
		go func(amount int64) {
			defer wg.Done()
			_, err := svc.RecordPayment(context.Background(), PaymentInput{
				VendorID: vendor.ID,
				Date:     date,
				Amount:   decimal.NewFromInt(amount),
				Mode:     enums.PaymentModeBank,
			})
			errs <- err
		}(int64(i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// 1 + 2 + ... + 10 = 55. Relative updates must not lose a single write.
	expected := decimal.NewFromInt(workers * (workers + 1) / 2)
	stored, err := repo.FindVendor(context.Background(), vendor.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalPaid.Equal(expected), "got %s", stored.TotalPaid)
	assert.True(t, stored.CurrentBalance.Equal(expected.Neg()), "got %s", stored.CurrentBalance)

	var count int64
	require.NoError(t, db.Model(&models.PaymentEntry{}).
		Where("vendor_id = ?", vendor.ID).Count(&count).Error)
	assert.Equal(t, int64(workers), count)
}
