// Package sanitizer normalizes guest-supplied input before validation
// and storage. All functions are idempotent and handle invalid input
// by returning empty values rather than errors.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims and collapses internal whitespace runs to a
// single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeGuestName normalizes a guest name for storage.
func NormalizeGuestName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeEmail lowercases and trims an email address. Format
// validation is the validator's job.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
