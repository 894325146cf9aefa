package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dairydesk/dairydesk-backend/pkg/db/models"
	"github.com/dairydesk/dairydesk-backend/pkg/pagination"
)

// EntryFilters narrows procurement/payment listings.
type EntryFilters struct {
	VendorID *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
}

// ProcurementList is one cursor page of procurement entries.
type ProcurementList struct {
	Items      []models.ProcurementEntry
	NextCursor string
}

// PaymentList is one cursor page of payment entries.
type PaymentList struct {
	Items      []models.PaymentEntry
	NextCursor string
}

// Repository manages persistence for the vendor ledger tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindVendor(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error)
	ListVendors(ctx context.Context) ([]models.Vendor, error)
	ListVendorsWithBalanceAbove(ctx context.Context, threshold decimal.Decimal) ([]models.Vendor, error)

	// ApplyVendorDeltas adjusts the materialized aggregates with a single
	// relative UPDATE so concurrent writers never overwrite each other.
	ApplyVendorDeltas(ctx context.Context, vendorID uuid.UUID, balance, procurement, paid decimal.Decimal) error
	// OverwriteVendorAggregates replaces the aggregates outright. Only the
	// audit repair path uses it.
	OverwriteVendorAggregates(ctx context.Context, vendorID uuid.UUID, balance, procurement, paid decimal.Decimal) error

	CreateProcurement(ctx context.Context, entry *models.ProcurementEntry) error
	FindProcurement(ctx context.Context, entryID uuid.UUID) (*models.ProcurementEntry, error)
	UpdateProcurement(ctx context.Context, entryID uuid.UUID, updates map[string]any) error
	DeleteProcurement(ctx context.Context, entryID uuid.UUID) error
	ListProcurements(ctx context.Context, filters EntryFilters, params pagination.Params) (*ProcurementList, error)

	CreatePayment(ctx context.Context, entry *models.PaymentEntry) error
	ListPayments(ctx context.Context, filters EntryFilters, params pagination.Params) (*PaymentList, error)

	ProcurementTotal(ctx context.Context, vendorID uuid.UUID) (decimal.Decimal, error)
	PaymentTotal(ctx context.Context, vendorID uuid.UUID) (decimal.Decimal, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindVendor(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "id = ?", vendorID).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *repository) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	var vendors []models.Vendor
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *repository) ListVendorsWithBalanceAbove(ctx context.Context, threshold decimal.Decimal) ([]models.Vendor, error) {
	var vendors []models.Vendor
	if err := r.db.WithContext(ctx).
		Where("current_balance > ?", threshold).
		Order("current_balance DESC").
		Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *repository) ApplyVendorDeltas(ctx context.Context, vendorID uuid.UUID, balance, procurement, paid decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.Vendor{}).
		Where("id = ?", vendorID).
		Updates(map[string]any{
			"current_balance":   gorm.Expr("current_balance + ?", balance),
			"total_procurement": gorm.Expr("total_procurement + ?", procurement),
			"total_paid":        gorm.Expr("total_paid + ?", paid),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) OverwriteVendorAggregates(ctx context.Context, vendorID uuid.UUID, balance, procurement, paid decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.Vendor{}).
		Where("id = ?", vendorID).
		Updates(map[string]any{
			"current_balance":   balance,
			"total_procurement": procurement,
			"total_paid":        paid,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateProcurement(ctx context.Context, entry *models.ProcurementEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindProcurement(ctx context.Context, entryID uuid.UUID) (*models.ProcurementEntry, error) {
	var entry models.ProcurementEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", entryID).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) UpdateProcurement(ctx context.Context, entryID uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProcurementEntry{}).
		Where("id = ?", entryID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteProcurement(ctx context.Context, entryID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProcurementEntry{}, "id = ?", entryID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func applyEntryFilters(query *gorm.DB, filters EntryFilters) *gorm.DB {
	if filters.VendorID != nil {
		query = query.Where("vendor_id = ?", *filters.VendorID)
	}
	if filters.DateFrom != nil {
		query = query.Where("date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("date <= ?", *filters.DateTo)
	}
	return query
}

func (r *repository) ListProcurements(ctx context.Context, filters EntryFilters, params pagination.Params) (*ProcurementList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := applyEntryFilters(r.db.WithContext(ctx).Model(&models.ProcurementEntry{}), filters)
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var entries []models.ProcurementEntry
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	list := &ProcurementList{Items: entries}
	if len(entries) > limit {
		list.Items = entries[:limit]
		last := list.Items[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func (r *repository) CreatePayment(ctx context.Context, entry *models.PaymentEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListPayments(ctx context.Context, filters EntryFilters, params pagination.Params) (*PaymentList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := applyEntryFilters(r.db.WithContext(ctx).Model(&models.PaymentEntry{}), filters)
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var entries []models.PaymentEntry
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	list := &PaymentList{Items: entries}
	if len(entries) > limit {
		list.Items = entries[:limit]
		last := list.Items[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func (r *repository) ProcurementTotal(ctx context.Context, vendorID uuid.UUID) (decimal.Decimal, error) {
	return r.sumColumn(ctx, &models.ProcurementEntry{}, "total_amount", vendorID)
}

func (r *repository) PaymentTotal(ctx context.Context, vendorID uuid.UUID) (decimal.Decimal, error) {
	return r.sumColumn(ctx, &models.PaymentEntry{}, "amount", vendorID)
}

func (r *repository) sumColumn(ctx context.Context, model any, column string, vendorID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(model).
		Select("SUM(" + column + ")").
		Where("vendor_id = ?", vendorID).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
