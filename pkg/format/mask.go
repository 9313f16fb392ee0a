package format

import "strings"

const (
	phoneMaxDigits = 11
	cepMaxDigits   = 8
)

// Digits keeps only ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// MaskPhone applies the Brazilian phone mask progressively, so partially typed
// input is masked as far as it goes: "(55", "(55) 9840-6", "(55) 98406-9184".
// Digits past the eleventh are dropped.
func MaskPhone(s string) string {
	d := truncate(Digits(s), phoneMaxDigits)
	switch {
	case len(d) == 0:
		return ""
	case len(d) <= 2:
		return "(" + d
	case len(d) <= 6:
		return "(" + d[:2] + ") " + d[2:]
	case len(d) <= 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	default:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
}

// MaskCEP renders a postal code as 00000-000, capped at eight digits.
func MaskCEP(s string) string {
	d := truncate(Digits(s), cepMaxDigits)
	if len(d) <= 5 {
		return d
	}
	return d[:5] + "-" + d[5:]
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
