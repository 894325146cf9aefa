package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/dairydesk/dairydesk-backend/internal/ledger"
	"github.com/dairydesk/dairydesk-backend/pkg/logger"
	"github.com/dairydesk/dairydesk-backend/pkg/metrics"
)

// BalanceAuditJob recomputes every vendor's balance from entry history and
// compares it against the materialized aggregates. Drift is reported through
// metrics and logs; rewriting the aggregates only happens behind the repair
// flag.
type BalanceAuditJob struct {
	repo    ledger.Repository
	logg    *logger.Logger
	metrics *metrics.LedgerMetrics
	repair  bool
}

// BalanceAuditParams configure the audit job.
type BalanceAuditParams struct {
	Repo    ledger.Repository
	Logger  *logger.Logger
	Metrics *metrics.LedgerMetrics
	Repair  bool
}

// NewBalanceAuditJob builds the nightly ledger audit.
func NewBalanceAuditJob(params BalanceAuditParams) (*BalanceAuditJob, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &BalanceAuditJob{
		repo:    params.Repo,
		logg:    params.Logger,
		metrics: params.Metrics,
		repair:  params.Repair,
	}, nil
}

// Name identifies the job in logs and metrics.
func (j *BalanceAuditJob) Name() string { return "ledger-balance-audit" }

// Run audits every vendor. One broken vendor does not stop the sweep; the
// failures are aggregated and returned at the end.
func (j *BalanceAuditJob) Run(ctx context.Context) error {
	vendors, err := j.repo.ListVendors(ctx)
	if err != nil {
		return fmt.Errorf("list vendors: %w", err)
	}

	var audit error
	drifted := 0
	for i := range vendors {
		vendor := &vendors[i]
		vendorCtx := j.logg.WithVendorID(ctx, vendor.ID.String())

		procured, err := j.repo.ProcurementTotal(ctx, vendor.ID)
		if err != nil {
			audit = multierr.Append(audit, fmt.Errorf("vendor %s: sum procurement: %w", vendor.ID, err))
			continue
		}
		paid, err := j.repo.PaymentTotal(ctx, vendor.ID)
		if err != nil {
			audit = multierr.Append(audit, fmt.Errorf("vendor %s: sum payments: %w", vendor.ID, err))
			continue
		}

		expected := procured.Sub(paid)
		drift := vendor.CurrentBalance.Sub(expected)
		j.metrics.SetDrift(vendor.ID.String(), drift.InexactFloat64())

		clean := drift.IsZero() &&
			vendor.TotalProcurement.Equal(procured) &&
			vendor.TotalPaid.Equal(paid)
		if clean {
			continue
		}

		drifted++
		driftCtx := j.logg.WithFields(vendorCtx, map[string]any{
			"materialized_balance": vendor.CurrentBalance.String(),
			"derived_balance":      expected.String(),
			"drift":                drift.String(),
		})
		j.logg.Warn(driftCtx, "vendor balance drift detected")

		if !j.repair {
			continue
		}
		if err := j.repo.OverwriteVendorAggregates(ctx, vendor.ID, expected, procured, paid); err != nil {
			audit = multierr.Append(audit, fmt.Errorf("vendor %s: repair aggregates: %w", vendor.ID, err))
			continue
		}
		j.metrics.IncRepair()
		j.logg.Info(driftCtx, "vendor balance repaired from entry history")
	}

	summaryCtx := j.logg.WithFields(ctx, map[string]any{
		"vendors_audited": len(vendors),
		"vendors_drifted": drifted,
	})
	j.logg.Info(summaryCtx, "ledger audit sweep finished")
	return audit
}
