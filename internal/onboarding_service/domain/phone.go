package domain

import (
	"fmt"
	"strings"
)

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// nationalNumber strips formatting and a leading country code 1.
func nationalNumber(phone string) (string, bool) {
	d := digitsOnly(phone)
	switch {
	case len(d) == 11 && d[0] == '1':
		return d[1:], true
	case len(d) == 10:
		return d, true
	default:
		return "", false
	}
}

// IsAreaCode reports whether s is exactly three digits.
func IsAreaCode(s string) bool {
	return len(s) == 3 && digitsOnly(s) == s
}

// ExtractAreaCode returns the first three digits of a US/Canada number.
func ExtractAreaCode(phone string) (string, error) {
	n, ok := nationalNumber(phone)
	if !ok {
		return "", fmt.Errorf("%w: cannot derive area code from %q", ErrInvalidAreaCode, phone)
	}
	return n[:3], nil
}

// NormalizePhone converts a US/Canada number to E.164 (+1XXXXXXXXXX).
func NormalizePhone(phone string) (string, error) {
	n, ok := nationalNumber(phone)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhoneNumber, phone)
	}
	return "+1" + n, nil
}
