// Package phone turns user-entered phone numbers into dialable E.164 strings.
package phone

import "strings"

// DefaultCountryCode is assumed for bare 10-digit numbers.
const DefaultCountryCode = "1"

// Normalize returns raw in E.164 form, or "" when raw holds no digits.
//
//	"5551234567"       -> "+15551234567"
//	"15551234567"      -> "+15551234567"
//	"+44 20 7946 0958" -> "+442079460958"
func Normalize(raw string) string {
	digits := Digits(raw)
	switch {
	case digits == "":
		return ""
	case len(digits) == 10:
		return "+" + DefaultCountryCode + digits
	case len(digits) == 11 && strings.HasPrefix(digits, DefaultCountryCode):
		return "+" + digits
	}
	// Already prefixed numbers and anything else keep their own country code.
	return "+" + digits
}

// Digits strips everything but ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether s is a normalized, dialable number.
func Valid(s string) bool {
	return len(s) > 1 && s[0] == '+' && Digits(s) == s[1:]
}
