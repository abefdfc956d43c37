package services

import "strings"

// NormalizeStatic formats a personnel static identifier to its stored
// form: 5 digits become XX-XXX, 6 digits become XXX-XXX. Any other
// digit count is invalid and yields the empty string.
func NormalizeStatic(raw string) string {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	switch len(s) {
	case 5:
		return s[:2] + "-" + s[2:]
	case 6:
		return s[:3] + "-" + s[3:]
	default:
		return ""
	}
}
