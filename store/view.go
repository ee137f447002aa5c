package store

import (
	"jyotikabilling/billfilter"
	"jyotikabilling/models"
)

// ApplySerialRange narrows the bulk print view. A rejected range leaves the
// state untouched.
func (s *Store) ApplySerialRange(r billfilter.SerialRange) ([]models.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered, sel, err := billfilter.ApplySerialRange(s.state.Bills, r)
	if err != nil {
		return nil, err
	}
	s.state = Reduce(s.state, Action{Filtered: filtered, Selection: sel})
	return cloneBills(filtered), nil
}

func (s *Store) ToggleSelection(key string) State {
	return s.Dispatch(Action{Toggle: key})
}

func (s *Store) ClearSelection() State {
	return s.Dispatch(Action{Clear: true})
}

// PrepareBulkPrint returns the selected bills in view order.
func (s *Store) PrepareBulkPrint() ([]models.Bill, error) {
	st := s.State()
	return billfilter.PrepareBulkPrint(st.View(), st.Selected)
}

// Filter applies date and amount bounds to the loaded bills without
// changing state.
func (s *Store) Filter(c billfilter.Criteria) []models.Bill {
	return billfilter.Filter(s.State().Bills, c)
}

// NextSerialHint is the provisional serial shown on a new bill form.
func (s *Store) NextSerialHint() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Bills) + 1
}
