package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics tracks vendor ledger write operations and audit drift.
type LedgerMetrics struct {
	operations *prometheus.CounterVec
	drift      *prometheus.GaugeVec
	repairs    prometheus.Counter
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_operations_total",
		Help: "Ledger write operations by type and result.",
	}, []string{"op", "result"})
	drift := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ledger_balance_drift",
		Help: "Difference between a vendor's materialized balance and the entry history sum.",
	}, []string{"vendor_id"})
	repairs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_audit_repairs_total",
		Help: "Vendor balances rewritten by the audit job.",
	})
	reg.MustRegister(operations, drift, repairs)
	return &LedgerMetrics{
		operations: operations,
		drift:      drift,
		repairs:    repairs,
	}
}

// IncOperation counts one ledger operation outcome.
func (l *LedgerMetrics) IncOperation(op, result string) {
	if l == nil || l.operations == nil {
		return
	}
	l.operations.WithLabelValues(normalizeLabel(op), normalizeLabel(result)).Inc()
}

// SetDrift records the audit drift observed for a vendor.
func (l *LedgerMetrics) SetDrift(vendorID string, drift float64) {
	if l == nil || l.drift == nil {
		return
	}
	l.drift.WithLabelValues(normalizeLabel(vendorID)).Set(drift)
}

// IncRepair counts a balance repair applied by the audit job.
func (l *LedgerMetrics) IncRepair() {
	if l == nil || l.repairs == nil {
		return
	}
	l.repairs.Inc()
}
