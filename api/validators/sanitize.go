package validators

import "strings"

// SanitizeString trims surrounding whitespace and truncates to maxLen bytes.
// Vendor and customer names pass through here before they reach the database.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}
