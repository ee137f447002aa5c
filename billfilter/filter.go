// Package billfilter narrows bill collections for listing and bulk printing.
package billfilter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"jyotikabilling/models"
)

var (
	ErrInvalidSerialRange = errors.New("start serial number cannot be greater than end serial number")
	ErrEmptySelection     = errors.New("please select at least one bill to print")
)

// Criteria bounds are inclusive. A nil bound leaves that side open.
type Criteria struct {
	StartDate *time.Time
	EndDate   *time.Time
	MinAmount *float64
	MaxAmount *float64
}

func (c Criteria) IsZero() bool {
	return c.StartDate == nil && c.EndDate == nil && c.MinAmount == nil && c.MaxAmount == nil
}

// ParseCriteria reads filter bounds from form or query text. Empty strings are
// treated as absent bounds.
func ParseCriteria(startDate, endDate, minAmount, maxAmount string) (Criteria, error) {
	var c Criteria
	var err error
	if c.StartDate, err = parseDateBound(startDate); err != nil {
		return Criteria{}, fmt.Errorf("startDate: %w", err)
	}
	if c.EndDate, err = parseDateBound(endDate); err != nil {
		return Criteria{}, fmt.Errorf("endDate: %w", err)
	}
	if c.MinAmount, err = parseAmountBound(minAmount); err != nil {
		return Criteria{}, fmt.Errorf("minAmount: %w", err)
	}
	if c.MaxAmount, err = parseAmountBound(maxAmount); err != nil {
		return Criteria{}, fmt.Errorf("maxAmount: %w", err)
	}
	return c, nil
}

func parseDateBound(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := models.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseAmountBound(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Filter keeps the bills inside every bound of c, preserving order.
func Filter(bills []models.Bill, c Criteria) []models.Bill {
	out := make([]models.Bill, 0, len(bills))
	for _, b := range bills {
		if c.StartDate != nil && b.BillDate.Before(*c.StartDate) {
			continue
		}
		if c.EndDate != nil && b.BillDate.After(*c.EndDate) {
			continue
		}
		if c.MinAmount != nil && b.Amount < *c.MinAmount {
			continue
		}
		if c.MaxAmount != nil && b.Amount > *c.MaxAmount {
			continue
		}
		out = append(out, b)
	}
	return out
}

// SerialRange bounds are inclusive. A nil Start is 0 and a nil End is unbounded.
type SerialRange struct {
	Start *int
	End   *int
}

func (r SerialRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

func (r SerialRange) bounds() (int, int) {
	start, end := 0, math.MaxInt
	if r.Start != nil {
		start = *r.Start
	}
	if r.End != nil {
		end = *r.End
	}
	return start, end
}

// ParseSerialRange reads the bounds from text inputs. Blank inputs are absent.
func ParseSerialRange(start, end string) (SerialRange, error) {
	var r SerialRange
	if s := strings.TrimSpace(start); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return SerialRange{}, fmt.Errorf("start serial: %w", err)
		}
		r.Start = &n
	}
	if s := strings.TrimSpace(end); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return SerialRange{}, fmt.Errorf("end serial: %w", err)
		}
		r.End = &n
	}
	return r, nil
}

// ApplySerialRange filters by serial number and selects everything it keeps.
// With no bounds it returns the whole collection and an empty selection.
// A reversed range fails with ErrInvalidSerialRange and returns nothing.
func ApplySerialRange(bills []models.Bill, r SerialRange) ([]models.Bill, Selection, error) {
	if r.IsZero() {
		all := make([]models.Bill, len(bills))
		copy(all, bills)
		return all, NewSelection(), nil
	}

	start, end := r.bounds()
	if start > end {
		return nil, nil, ErrInvalidSerialRange
	}

	filtered := make([]models.Bill, 0, len(bills))
	sel := NewSelection()
	for _, b := range bills {
		// bills without a serial number compare as 0
		serial := b.SerialNumber
		if serial < start || serial > end {
			continue
		}
		filtered = append(filtered, b)
		sel.Add(b.Key())
	}
	return filtered, sel, nil
}

// PrepareBulkPrint returns the selected bills in the order of filtered.
func PrepareBulkPrint(filtered []models.Bill, sel Selection) ([]models.Bill, error) {
	if sel.Len() == 0 {
		return nil, ErrEmptySelection
	}
	out := make([]models.Bill, 0, sel.Len())
	for _, b := range filtered {
		if sel.Has(b.Key()) {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptySelection
	}
	return out, nil
}

// Keys lists bill keys in collection order.
func Keys(bills []models.Bill) []string {
	keys := make([]string, 0, len(bills))
	for _, b := range bills {
		keys = append(keys, b.Key())
	}
	return keys
}
