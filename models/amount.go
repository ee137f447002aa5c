package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("amount is not a number")

// MaxAmount is the largest amount the bill table's NUMERIC(12,2) column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// AmountInput holds an amount exactly as it was entered. It decodes from a
// JSON number, a JSON string or null.
type AmountInput string

func NewAmount(f float64) AmountInput {
	return AmountInput(decimal.NewFromFloat(f).String())
}

func (a *AmountInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountInput(s)
	default:
		*a = AmountInput(data)
	}
	return nil
}

func (a AmountInput) MarshalJSON() ([]byte, error) {
	if a.IsEmpty() {
		return []byte("null"), nil
	}
	if d, err := a.Decimal(); err == nil {
		return []byte(d.String()), nil
	}
	return json.Marshal(string(a))
}

func (a AmountInput) IsEmpty() bool {
	return strings.TrimSpace(string(a)) == ""
}

func (a AmountInput) Decimal() (decimal.Decimal, error) {
	if a.IsEmpty() {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(strings.TrimSpace(string(a)))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Paise returns the amount rounded to two decimals, the value that is stored.
func (a AmountInput) Paise() (decimal.Decimal, error) {
	d, err := a.Decimal()
	if err != nil {
		return decimal.Zero, err
	}
	return d.Round(2), nil
}

// IsStorable reports whether the rounded amount is above zero and fits
// the stored column.
func (a AmountInput) IsStorable() bool {
	d, err := a.Paise()
	return err == nil && d.IsPositive() && d.LessThanOrEqual(MaxAmount)
}

// Float64 returns the amount rounded to paise.
func (a AmountInput) Float64() (float64, error) {
	d, err := a.Paise()
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}
