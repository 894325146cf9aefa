package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
)

type stubReportsRepo struct {
	payables    decimal.Decimal
	receivables decimal.Decimal
	procurement ProcurementStats
	production  decimal.Decimal
	lowStock    int64

	rangeProcurement decimal.Decimal
	rangePayments    decimal.Decimal
}

func (s *stubReportsRepo) PayablesTotal(ctx context.Context) (decimal.Decimal, error) {
	return s.payables, nil
}

func (s *stubReportsRepo) ReceivablesTotal(ctx context.Context) (decimal.Decimal, error) {
	return s.receivables, nil
}

func (s *stubReportsRepo) ProcurementStatsForDate(ctx context.Context, date time.Time) (*ProcurementStats, error) {
	stats := s.procurement
	return &stats, nil
}

func (s *stubReportsRepo) ProductionTotalForDate(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	return s.production, nil
}

func (s *stubReportsRepo) LowStockCount(ctx context.Context) (int64, error) {
	return s.lowStock, nil
}

func (s *stubReportsRepo) ProcurementTotalForRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return s.rangeProcurement, nil
}

func (s *stubReportsRepo) PaymentTotalForRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return s.rangePayments, nil
}

func TestDashboardAssemblesAggregates(t *testing.T) {
	repo := &stubReportsRepo{
		payables:    decimal.NewFromInt(12500),
		receivables: decimal.NewFromInt(3400),
		procurement: ProcurementStats{
			QuantityL: decimal.NewFromInt(180),
			Amount:    decimal.NewFromInt(8100),
		},
		production: decimal.NewFromInt(95),
		lowStock:   2,
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	summary, err := svc.Dashboard(context.Background(), date)
	require.NoError(t, err)

	assert.True(t, summary.OutstandingPayables.Equal(decimal.NewFromInt(12500)))
	assert.True(t, summary.Receivables.Equal(decimal.NewFromInt(3400)))
	assert.True(t, summary.ProcurementQuantityL.Equal(decimal.NewFromInt(180)))
	assert.True(t, summary.ProcurementAmount.Equal(decimal.NewFromInt(8100)))
	assert.True(t, summary.ProductionQuantityL.Equal(decimal.NewFromInt(95)))
	assert.Equal(t, int64(2), summary.LowStockItems)
}

func TestDashboardRequiresDate(t *testing.T) {
	svc, err := NewService(&stubReportsRepo{})
	require.NoError(t, err)

	_, err = svc.Dashboard(context.Background(), time.Time{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
}

func TestRegisterTotalsRange(t *testing.T) {
	repo := &stubReportsRepo{
		rangeProcurement: decimal.NewFromInt(60000),
		rangePayments:    decimal.NewFromInt(45000),
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	register, err := svc.Register(context.Background(), from, to)
	require.NoError(t, err)
	assert.True(t, register.ProcurementTotal.Equal(decimal.NewFromInt(60000)))
	assert.True(t, register.PaymentTotal.Equal(decimal.NewFromInt(45000)))

	_, err = svc.Register(context.Background(), to, from)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
}
