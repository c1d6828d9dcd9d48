package domain

import "regexp"

// PAN format: five letters, four digits, one letter (e.g. ABCDE1234F).
var panRegex = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// ValidPAN reports whether s looks like a permanent account number.
// An empty PAN is accepted: KYC details are optional at registration.
func ValidPAN(s string) bool {
	if s == "" {
		return true
	}
	return panRegex.MatchString(s)
}
