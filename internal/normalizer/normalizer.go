// Package normalizer cleans raw text lines before they become title candidates.
package normalizer

import "strings"

// MinLength is the shortest normalized line that is kept.
const MinLength = 3

// IsPrintable reports whether r is in the printable set: ASCII graphic
// characters, space, and the ASCII whitespace controls.
func IsPrintable(r rune) bool {
	if r >= 0x20 && r <= 0x7e {
		return true
	}
	switch r {
	case '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// OnlyPrintable drops every rune outside the printable set.
// Non-ASCII letters are dropped, not transliterated.
func OnlyPrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if IsPrintable(r) {
			return r
		}
		return -1
	}, s)
}

// Normalize strips non-printable characters from line and trims surrounding whitespace.
//
// The second return value is false when the line is rejected:
//   - the result is empty
//   - the result consists only of digits
//   - the result has fewer than MinLength characters
func Normalize(line string) (string, bool) {
	s := strings.TrimSpace(OnlyPrintable(line))
	if s == "" || isDigits(s) || len(s) < MinLength {
		return "", false
	}
	return s, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
