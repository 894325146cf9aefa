package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/internal/repo"
	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
)

// ProcurementStats aggregates a day's milk intake.
type ProcurementStats struct {
	QuantityL decimal.Decimal
	Amount    decimal.Decimal
}

// Repository runs the aggregate queries behind dashboards and registers.
type Repository interface {
	PayablesTotal(ctx context.Context) (decimal.Decimal, error)
	ReceivablesTotal(ctx context.Context) (decimal.Decimal, error)
	ProcurementStatsForDate(ctx context.Context, date time.Time) (*ProcurementStats, error)
	ProductionTotalForDate(ctx context.Context, date time.Time) (decimal.Decimal, error)
	LowStockCount(ctx context.Context) (int64, error)
	ProcurementTotalForRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	PaymentTotalForRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a reports repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) PayablesTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.DB(ctx).
		Model(&models.Vendor{}).
		Select("SUM(current_balance)").
		Where("current_balance > 0").
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return nullToZero(total), nil
}

func (r *repository) ReceivablesTotal(ctx context.Context) (decimal.Decimal, error) {
	var sales decimal.NullDecimal
	if err := r.DB(ctx).
		Model(&models.SaleEntry{}).
		Select("SUM(total_amount)").
		Scan(&sales).Error; err != nil {
		return decimal.Zero, err
	}
	var receipts decimal.NullDecimal
	if err := r.DB(ctx).
		Model(&models.ReceiptEntry{}).
		Select("SUM(amount)").
		Scan(&receipts).Error; err != nil {
		return decimal.Zero, err
	}
	return nullToZero(sales).Sub(nullToZero(receipts)), nil
}

func (r *repository) ProcurementStatsForDate(ctx context.Context, date time.Time) (*ProcurementStats, error) {
	var row struct {
		QuantityL decimal.NullDecimal
		Amount    decimal.NullDecimal
	}
	if err := r.DB(ctx).
		Model(&models.ProcurementEntry{}).
		Select("SUM(quantity_l) AS quantity_l, SUM(total_amount) AS amount").
		Where("date = ?", date).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &ProcurementStats{
		QuantityL: nullToZero(row.QuantityL),
		Amount:    nullToZero(row.Amount),
	}, nil
}

func (r *repository) ProductionTotalForDate(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.DB(ctx).
		Model(&models.ProductionEntry{}).
		Select("SUM(quantity_l)").
		Where("date = ?", date).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return nullToZero(total), nil
}

func (r *repository) LowStockCount(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB(ctx).
		Model(&models.InventoryItem{}).
		Where("quantity <= low_stock_threshold").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) ProcurementTotalForRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.DB(ctx).
		Model(&models.ProcurementEntry{}).
		Select("SUM(total_amount)").
		Where("date >= ? AND date <= ?", from, to).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return nullToZero(total), nil
}

func (r *repository) PaymentTotalForRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.DB(ctx).
		Model(&models.PaymentEntry{}).
		Select("SUM(amount)").
		Where("date >= ? AND date <= ?", from, to).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return nullToZero(total), nil
}

func nullToZero(value decimal.NullDecimal) decimal.Decimal {
	if !value.Valid {
		return decimal.Zero
	}
	return value.Decimal
}
