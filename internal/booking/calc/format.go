package calc

import (
	"fmt"
	"strings"
)

// FormatINR renders a monetary value with Indian digit grouping and exactly
// two decimal places, e.g. 1234567.5 -> "12,34,567.50".
func FormatINR(v float64) string {
	s := fmt.Sprintf("%.2f", v)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	grouped := groupIndian(intPart)
	if neg {
		return "-" + grouped + "." + fracPart
	}
	return grouped + "." + fracPart
}

// groupIndian groups the last three digits, then every two digits after that.
func groupIndian(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var b strings.Builder
	head := digits[:n-3]
	tail := digits[n-3:]

	// The head groups in pairs from the right.
	if rem := len(head) % 2; rem == 1 {
		b.WriteString(head[:1])
		head = head[1:]
		if len(head) > 0 {
			b.WriteString(",")
		}
	}
	for i := 0; i < len(head); i += 2 {
		b.WriteString(head[i : i+2])
		if i+2 < len(head) {
			b.WriteString(",")
		}
	}
	b.WriteString(",")
	b.WriteString(tail)
	return b.String()
}
