// Package store keeps the client-side bill state. Every change goes through
// Reduce, and the effects on Store feed API results back in as actions.
package store

import (
	"jyotikabilling/billfilter"
	"jyotikabilling/client"
	"jyotikabilling/models"
)

type Op string

const (
	OpFetchAll  Op = "fetch-all"
	OpFetchByID Op = "fetch-by-id"
	OpCreate    Op = "create"
	OpUpdate    Op = "update"
	OpDelete    Op = "delete"
	OpBulkPrint Op = "bulk-print"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

type State struct {
	Bills       []models.Bill
	CurrentBill *models.Bill

	// Filtered is the serial-range view. Nil means the whole collection.
	Filtered []models.Bill
	Selected billfilter.Selection

	BulkPrintBills   []models.Bill
	BulkPrintLoading bool
	BulkPrintError   *client.APIError

	Loading bool
	Error   *client.APIError
	Status  map[Op]Status
}

func NewState() State {
	return State{
		Selected: billfilter.NewSelection(),
		Status:   map[Op]Status{},
	}
}

// OpStatus reports idle for operations that never ran.
func (s State) OpStatus(op Op) Status {
	if st, ok := s.Status[op]; ok {
		return st
	}
	return StatusIdle
}

// View is the collection the bulk print screen works on.
func (s State) View() []models.Bill {
	if s.Filtered != nil {
		return s.Filtered
	}
	return s.Bills
}

func (s State) clone() State {
	c := s
	c.Bills = cloneBills(s.Bills)
	c.Filtered = cloneBills(s.Filtered)
	c.BulkPrintBills = cloneBills(s.BulkPrintBills)
	if s.CurrentBill != nil {
		b := *s.CurrentBill
		c.CurrentBill = &b
	}
	if s.Selected != nil {
		c.Selected = s.Selected.Clone()
	} else {
		c.Selected = billfilter.NewSelection()
	}
	c.Status = make(map[Op]Status, len(s.Status))
	for k, v := range s.Status {
		c.Status[k] = v
	}
	return c
}

func cloneBills(bills []models.Bill) []models.Bill {
	if bills == nil {
		return nil
	}
	out := make([]models.Bill, len(bills))
	copy(out, bills)
	return out
}

func indexOf(bills []models.Bill, key string) int {
	for i, b := range bills {
		if b.Key() == key {
			return i
		}
	}
	return -1
}
