package utils

import (
	"regexp"
	"strings"
	"unicode"
)

// CountDigits returns how many decimal digits s contains, ignoring
// spaces, dashes, brackets and country-code prefixes.
func CountDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// ValidPhone accepts numbers with at least ten digits.
func ValidPhone(s string) bool {
	return CountDigits(s) >= 10
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

func ContainsIgnoreCase(str, substr string) bool {
	return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
}
