package service

import "strings"

// IsValidCurrencyCode checks whether a string is a 3-letter currency code (case-insensitive).
func IsValidCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range strings.ToUpper(code) {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// NormalizeCode trims and upper-cases code, rejecting anything that is not three letters.
func NormalizeCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if !IsValidCurrencyCode(code) {
		return "", ErrInvalidCurrencyCode
	}
	return strings.ToUpper(code), nil
}
