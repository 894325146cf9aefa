package enums

import "fmt"

// PaymentMode describes how money changed hands for a vendor payment or
// customer receipt.
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "cash"
	PaymentModeBank   PaymentMode = "bank"
	PaymentModeUPI    PaymentMode = "upi"
	PaymentModeCheque PaymentMode = "cheque"
)

var validPaymentModes = []PaymentMode{
	PaymentModeCash,
	PaymentModeBank,
	PaymentModeUPI,
	PaymentModeCheque,
}

// IsValid reports whether the value matches the canonical payment mode enum.
func (p PaymentMode) IsValid() bool {
	for _, candidate := range validPaymentModes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMode converts the raw string to PaymentMode.
func ParsePaymentMode(value string) (PaymentMode, error) {
	for _, candidate := range validPaymentModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment mode %q", value)
}
