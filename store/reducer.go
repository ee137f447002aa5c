package store

import (
	"jyotikabilling/billfilter"
	"jyotikabilling/client"
	"jyotikabilling/models"
)

// Action is one step of an async operation, or a plain view change when
// Op is empty.
type Action struct {
	Op    Op
	Phase Status

	Bills []models.Bill
	Bill  *models.Bill
	ID    string
	Err   *client.APIError

	// view changes
	Filtered  []models.Bill
	Selection billfilter.Selection
	Toggle    string
	Clear     bool
}

func Pending(op Op) Action { return Action{Op: op, Phase: StatusPending} }

func Rejected(op Op, err error) Action {
	return Action{Op: op, Phase: StatusRejected, Err: client.AsAPIError(err)}
}

// Reduce returns the state after a. The input state is never modified.
func Reduce(s State, a Action) State {
	next := s.clone()

	if a.Op == "" {
		return reduceView(next, a)
	}
	next.Status[a.Op] = a.Phase

	switch a.Phase {
	case StatusPending:
		return reducePending(next, a.Op)
	case StatusFulfilled:
		return reduceFulfilled(next, a)
	case StatusRejected:
		return reduceRejected(next, a)
	}
	return next
}

func reducePending(s State, op Op) State {
	switch op {
	case OpFetchAll, OpDelete:
		s.Loading = true
		s.Error = nil
	case OpFetchByID:
		s.Loading = true
		s.Error = nil
		s.CurrentBill = nil
	case OpBulkPrint:
		s.BulkPrintLoading = true
		s.BulkPrintError = nil
		s.BulkPrintBills = nil
	}
	return s
}

func reduceFulfilled(s State, a Action) State {
	switch a.Op {
	case OpFetchAll:
		s.Loading = false
		s.Bills = cloneBills(a.Bills)
		if s.Bills == nil {
			s.Bills = []models.Bill{}
		}
		s.Filtered = nil
	case OpFetchByID:
		s.Loading = false
		if a.Bill != nil {
			b := *a.Bill
			s.CurrentBill = &b
		}
	case OpCreate:
		if a.Bill != nil {
			s.Bills = append(s.Bills, *a.Bill)
			// a new bill invalidates the serial-range view
			s.Filtered = nil
		}
	case OpUpdate:
		if a.Bill == nil {
			break
		}
		if i := indexOf(s.Bills, a.Bill.Key()); i >= 0 {
			s.Bills[i] = *a.Bill
		}
		if i := indexOf(s.Filtered, a.Bill.Key()); i >= 0 {
			s.Filtered[i] = *a.Bill
		}
		if s.CurrentBill != nil && s.CurrentBill.Key() == a.Bill.Key() {
			b := *a.Bill
			s.CurrentBill = &b
		}
	case OpDelete:
		s.Loading = false
		s.Bills = removeKey(s.Bills, a.ID)
		s.Filtered = removeKey(s.Filtered, a.ID)
		s.Selected.Remove(a.ID)
		if s.CurrentBill != nil && s.CurrentBill.Key() == a.ID {
			s.CurrentBill = nil
		}
	case OpBulkPrint:
		s.BulkPrintLoading = false
		s.BulkPrintBills = cloneBills(a.Bills)
	}
	return s
}

func reduceRejected(s State, a Action) State {
	switch a.Op {
	case OpFetchAll, OpFetchByID, OpDelete:
		s.Loading = false
		s.Error = a.Err
	case OpBulkPrint:
		s.BulkPrintLoading = false
		s.BulkPrintError = a.Err
	default:
		s.Error = a.Err
	}
	return s
}

func reduceView(s State, a Action) State {
	switch {
	case a.Clear:
		s.Selected = billfilter.NewSelection()
	case a.Toggle != "":
		s.Selected.Toggle(a.Toggle)
	case a.Selection != nil:
		s.Filtered = cloneBills(a.Filtered)
		s.Selected = a.Selection.Clone()
	}
	return s
}

func removeKey(bills []models.Bill, key string) []models.Bill {
	if bills == nil {
		return nil
	}
	out := bills[:0]
	for _, b := range bills {
		if b.Key() != key {
			out = append(out, b)
		}
	}
	return out
}
