package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/dairydesk/dairydesk-backend/pkg/errors"
)

// DashboardSummary is the single-screen farm overview.
type DashboardSummary struct {
	Date                 time.Time       `json:"date"`
	OutstandingPayables  decimal.Decimal `json:"outstanding_payables"`
	Receivables          decimal.Decimal `json:"receivables"`
	ProcurementQuantityL decimal.Decimal `json:"procurement_quantity_l"`
	ProcurementAmount    decimal.Decimal `json:"procurement_amount"`
	ProductionQuantityL  decimal.Decimal `json:"production_quantity_l"`
	LowStockItems        int64           `json:"low_stock_items"`
}

// LedgerRegister totals money movement over a date range.
type LedgerRegister struct {
	From             time.Time       `json:"from"`
	To               time.Time       `json:"to"`
	ProcurementTotal decimal.Decimal `json:"procurement_total"`
	PaymentTotal     decimal.Decimal `json:"payment_total"`
}

// Service assembles read-only reporting views.
type Service interface {
	Dashboard(ctx context.Context, date time.Time) (*DashboardSummary, error)
	Register(ctx context.Context, from, to time.Time) (*LedgerRegister, error)
}

type service struct {
	repo Repository
}

// NewService builds the reports service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Dashboard(ctx context.Context, date time.Time) (*DashboardSummary, error) {
	if date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date required")
	}

	payables, err := s.repo.PayablesTotal(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum payables")
	}
	receivables, err := s.repo.ReceivablesTotal(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum receivables")
	}
	procurement, err := s.repo.ProcurementStatsForDate(ctx, date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate procurement")
	}
	production, err := s.repo.ProductionTotalForDate(ctx, date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate production")
	}
	lowStock, err := s.repo.LowStockCount(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count low stock")
	}

	return &DashboardSummary{
		Date:                 date,
		OutstandingPayables:  payables,
		Receivables:          receivables,
		ProcurementQuantityL: procurement.QuantityL,
		ProcurementAmount:    procurement.Amount,
		ProductionQuantityL:  production,
		LowStockItems:        lowStock,
	}, nil
}

func (s *service) Register(ctx context.Context, from, to time.Time) (*LedgerRegister, error) {
	if from.IsZero() || to.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range required")
	}
	if to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range end precedes start")
	}

	procurement, err := s.repo.ProcurementTotalForRange(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum procurement")
	}
	payments, err := s.repo.PaymentTotalForRange(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum payments")
	}

	return &LedgerRegister{
		From:             from,
		To:               to,
		ProcurementTotal: procurement,
		PaymentTotal:     payments,
	}, nil
}
