package enums

import "fmt"

// StockMovementType classifies an inventory movement as stock-in or stock-out.
type StockMovementType string

const (
	StockMovementIn  StockMovementType = "in"
	StockMovementOut StockMovementType = "out"
)

var validStockMovementTypes = []StockMovementType{
	StockMovementIn,
	StockMovementOut,
}

// IsValid reports whether the value matches the canonical movement type enum.
func (s StockMovementType) IsValid() bool {
	for _, candidate := range validStockMovementTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockMovementType converts the raw string to StockMovementType.
func ParseStockMovementType(value string) (StockMovementType, error) {
	for _, candidate := range validStockMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock movement type %q", value)
}
