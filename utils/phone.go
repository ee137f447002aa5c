package utils

import (
	"fmt"
	"strings"

	"github.com/ttacon/libphonenumber"
)

const defaultPhoneRegion = "IN"

// NormalizePhone reduces an Indian mobile number such as "+91 98765 43210"
// to its ten national digits. Input that does not parse as a valid number
// is returned trimmed and unchanged, so validation can report it.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	p, err := libphonenumber.Parse(raw, defaultPhoneRegion)
	if err != nil || !libphonenumber.IsValidNumber(p) {
		return raw
	}
	return fmt.Sprintf("%d", p.GetNationalNumber())
}

// FormatPhone prints ten digits as (XXX) XXX-XXXX and anything else as is.
func FormatPhone(phone string) string {
	if len(phone) != 10 {
		return phone
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return phone
		}
	}
	return fmt.Sprintf("(%s) %s-%s", phone[:3], phone[3:6], phone[6:])
}
