package enums

import "fmt"

// MilkSession identifies the collection window a milk entry belongs to.
type MilkSession string

const (
	MilkSessionMorning MilkSession = "morning"
	MilkSessionEvening MilkSession = "evening"
)

var validMilkSessions = []MilkSession{
	MilkSessionMorning,
	MilkSessionEvening,
}

// IsValid reports whether the value matches the canonical milk session enum.
func (m MilkSession) IsValid() bool {
	for _, candidate := range validMilkSessions {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMilkSession converts the raw string to MilkSession.
func ParseMilkSession(value string) (MilkSession, error) {
	for _, candidate := range validMilkSessions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid milk session %q", value)
}
