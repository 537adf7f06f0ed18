package validators

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Phone validation errors. Each failure reason is a distinct sentinel so the
// handler layer can surface field-level messages.
var (
	ErrPhoneRequired    = errors.New("phone number is required")
	ErrPhoneCountryCode = errors.New("phone number must start with country code 55 (Brazil)")
	ErrPhoneLength      = errors.New("invalid phone format: use 55 + area code (2 digits) + number (8 or 9 digits)")
	ErrPhoneAreaCode    = errors.New("invalid area code (must be between 11 and 99)")
)

// Digits strips every non-digit character from s.
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

// NormalizePhone validates a raw Brazilian phone number and returns its
// canonical dialable form: country code 55 + 2-digit area code + 8 or 9
// digit subscriber number, digits only.
func NormalizePhone(raw string) (string, error) {
	digits := Digits(raw)
	if digits == "" {
		return "", ErrPhoneRequired
	}
	if !strings.HasPrefix(digits, "55") {
		return "", ErrPhoneCountryCode
	}
	if len(digits) < 12 || len(digits) > 13 {
		return "", ErrPhoneLength
	}
	areaCode, err := strconv.Atoi(digits[2:4])
	if err != nil || areaCode < 11 || areaCode > 99 {
		return "", ErrPhoneAreaCode
	}
	return digits, nil
}

// FormatPhone renders a normalized phone for display, e.g.
// "+55 11 99999-9999" (9-digit subscriber) or "+55 11 9999-9999" (8-digit).
// Purely cosmetic: stripping non-digits from the result yields the input back.
// Unrecognized lengths are returned unchanged.
func FormatPhone(phone string) string {
	digits := Digits(phone)
	switch len(digits) {
	case 13:
		return fmt.Sprintf("+%s %s %s-%s", digits[0:2], digits[2:4], digits[4:9], digits[9:])
	case 12:
		return fmt.Sprintf("+%s %s %s-%s", digits[0:2], digits[2:4], digits[4:8], digits[8:])
	}
	return phone
}
