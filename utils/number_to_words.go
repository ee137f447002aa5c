package utils

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// NumberToWords spells a non-negative integer using the Indian
// crore/lakh/thousand grouping. Zero renders as an empty string.
func NumberToWords(num int64) string {
	switch {
	case num <= 0:
		return ""
	case num < 20:
		return ones[num]
	case num < 100:
		return strings.TrimSpace(tens[num/10] + " " + ones[num%10])
	case num < 1000:
		remainder := num % 100
		if remainder == 0 {
			return ones[num/100] + " Hundred"
		}
		return ones[num/100] + " Hundred and " + NumberToWords(remainder)
	case num < 100000:
		return joinGroup(NumberToWords(num/1000), "Thousand", num%1000)
	case num < 10000000:
		return joinGroup(NumberToWords(num/100000), "Lakh", num%100000)
	default:
		// crore groups above 99 recurse, so 10^10 is "One Thousand Crore"
		return joinGroup(NumberToWords(num/10000000), "Crore", num%10000000)
	}
}

func joinGroup(head, scale string, remainder int64) string {
	if remainder == 0 {
		return head + " " + scale
	}
	return head + " " + scale + " " + NumberToWords(remainder)
}

// ConvertToWords renders a currency amount for printed invoices, for example
// "One Hundred Rupees and Fifty Paise Only". The amount is rounded to two
// decimals (half away from zero) before it is split into rupees and paise.
func ConvertToWords(amount float64) string {
	if !isFinite(amount) {
		return ""
	}
	d := decimal.NewFromFloat(amount).Round(2)
	if d.IsNegative() {
		return "Minus " + ConvertToWords(-amount)
	}
	if d.IsZero() {
		return "Zero"
	}

	rupees := d.IntPart()
	paise := d.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).IntPart()

	rupeeWords := normalizeSpaces(NumberToWords(rupees))
	paiseWords := normalizeSpaces(NumberToWords(paise))

	if rupees == 0 {
		rupeeWords = "Zero"
	}

	if paise == 0 {
		return rupeeWords + " Rupees Only"
	}
	return rupeeWords + " Rupees and " + paiseWords + " Paise Only"
}

// FormatRupees renders an amount the way invoices print it: "₹" and two decimals.
// Non-finite amounts print as "₹-".
func FormatRupees(amount float64) string {
	if !isFinite(amount) {
		return "₹-"
	}
	return "₹" + decimal.NewFromFloat(amount).StringFixed(2)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
