package enums

import "fmt"

// CattleStatus is the lifecycle state of an animal in the herd registry.
type CattleStatus string

const (
	CattleStatusActive CattleStatus = "active"
	CattleStatusDry    CattleStatus = "dry"
	CattleStatusSold   CattleStatus = "sold"
	CattleStatusDead   CattleStatus = "dead"
)

var validCattleStatuses = []CattleStatus{
	CattleStatusActive,
	CattleStatusDry,
	CattleStatusSold,
	CattleStatusDead,
}

// IsValid reports whether the value matches the canonical cattle status enum.
func (c CattleStatus) IsValid() bool {
	for _, candidate := range validCattleStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCattleStatus converts the raw string to CattleStatus.
func ParseCattleStatus(value string) (CattleStatus, error) {
	for _, candidate := range validCattleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cattle status %q", value)
}
