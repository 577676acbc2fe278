// Package gstin formats and validates GSTIN identifiers as they are typed.
package gstin

import (
	"errors"
	"strings"
)

// Length is the full length of a GSTIN.
const Length = 15

// ErrPartial marks a value that has started but not finished the 15 character
// template. Empty and complete values are both valid.
var ErrPartial = errors.New("gstin is incomplete")

// Format uppercases the input, strips non-alphanumerics, truncates to 15
// characters, and then filters the remainder position-by-position against the
// GSTIN template. It is idempotent: Format(Format(x)) == Format(x).
func Format(raw string) string {
	cleaned := make([]byte, 0, Length)
	for i := 0; i < len(raw) && len(cleaned) < Length; i++ {
		c := raw[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') {
			cleaned = append(cleaned, c)
		}
	}

	out := make([]byte, 0, Length)
	for _, c := range cleaned {
		if len(out) == Length {
			break
		}
		if allowedAt(len(out), c) {
			out = append(out, c)
		}
	}
	return string(out)
}

// Validate reports whether a formatted value is acceptable: either empty or
// all 15 characters. Anything in between is ErrPartial.
func Validate(s string) error {
	if s == "" || len(s) == Length {
		return nil
	}
	return ErrPartial
}

// allowedAt implements the positional template:
// 0-1 numeric, 2-6 alphabetic, 7-10 numeric, 11 alphabetic,
// 12 in {1-9, A-Z}, 13 literal Z, 14 alphanumeric.
func allowedAt(pos int, c byte) bool {
	digit := c >= '0' && c <= '9'
	alpha := c >= 'A' && c <= 'Z'

	switch {
	case pos <= 1:
		return digit
	case pos <= 6:
		return alpha
	case pos <= 10:
		return digit
	case pos == 11:
		return alpha
	case pos == 12:
		return (c >= '1' && c <= '9') || alpha
	case pos == 13:
		return c == 'Z'
	case pos == 14:
		return digit || alpha
	default:
		return false
	}
}

// StateOfGSTIN returns the two digit state code prefix, or "" when the value
// is too short to carry one.
func StateOfGSTIN(s string) string {
	if len(s) < 2 {
		return ""
	}
	return strings.ToUpper(s[:2])
}
