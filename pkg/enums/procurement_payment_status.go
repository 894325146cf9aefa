package enums

import "fmt"

// ProcurementPaymentStatus tracks whether a procurement entry has been settled.
type ProcurementPaymentStatus string

const (
	ProcurementPaymentStatusPending ProcurementPaymentStatus = "pending"
	ProcurementPaymentStatusPaid    ProcurementPaymentStatus = "paid"
)

var validProcurementPaymentStatuses = []ProcurementPaymentStatus{
	ProcurementPaymentStatusPending,
	ProcurementPaymentStatusPaid,
}

// IsValid reports whether the value matches the canonical status enum.
func (p ProcurementPaymentStatus) IsValid() bool {
	for _, candidate := range validProcurementPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProcurementPaymentStatus converts the raw string to the enum.
func ParseProcurementPaymentStatus(value string) (ProcurementPaymentStatus, error) {
	for _, candidate := range validProcurementPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid procurement payment status %q", value)
}
