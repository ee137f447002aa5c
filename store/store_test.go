package store

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"sync"
	"testing"
	"time"

	"jyotikabilling/billfilter"
	"jyotikabilling/client"
	"jyotikabilling/models"
)

type fakeAPI struct {
	mu        sync.Mutex
	bills     []models.Bill
	err       error
	created   []models.BillDraft
	bulkPaths []string
	bulk      map[string]error
}

func (f *fakeAPI) ListBills(ctx context.Context) ([]models.Bill, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bills, nil
}

func (f *fakeAPI) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.bills {
		if b.Key() == id {
			return &b, nil
		}
	}
	return nil, &client.APIError{Kind: client.KindNotFound, Message: "Bill not found", Status: 404}
}

func (f *fakeAPI) CreateBill(ctx context.Context, draft models.BillDraft) (*models.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, draft)
	if f.err != nil {
		return nil, f.err
	}
	b, err := draft.ToBill(time.Now(), models.DefaultBillAddress)
	if err != nil {
		return nil, err
	}
	b.ID = "srv-" + draft.PatientName
	return &b, nil
}

func (f *fakeAPI) UpdateBill(ctx context.Context, id string, draft models.BillDraft) (*models.Bill, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, err := draft.ToBill(time.Now(), models.DefaultBillAddress)
	if err != nil {
		return nil, err
	}
	b.ID = id
	return &b, nil
}

func (f *fakeAPI) DeleteBill(ctx context.Context, id string) error {
	return f.err
}

func (f *fakeAPI) PostBulkPrint(ctx context.Context, path string, ids []string) ([]models.Bill, error) {
	f.mu.Lock()
	f.bulkPaths = append(f.bulkPaths, path)
	f.mu.Unlock()
	if err := f.bulk[path]; err != nil {
		return nil, err
	}
	out := make([]models.Bill, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Bill{ID: id})
	}
	return out, nil
}

func notFound() error {
	return &client.APIError{Kind: client.KindNotFound, Message: "Not Found", Status: http.StatusNotFound}
}

func seeded() []models.Bill {
	return []models.Bill{
		{ID: "a", SerialNumber: 1, PatientName: "Asha", Amount: 300},
		{ID: "b", SerialNumber: 2, PatientName: "Bela", Amount: 500},
		{ID: "c", SerialNumber: 3, PatientName: "Chitra", Amount: 700},
	}
}

func keys(bills []models.Bill) []string { return billfilter.Keys(bills) }

func TestFetchBillsReplacesCollection(t *testing.T) {
	api := &fakeAPI{bills: seeded()}
	s := New(api)
	s.Dispatch(Action{Op: OpCreate, Phase: StatusFulfilled, Bill: &models.Bill{ID: "stale"}})

	if _, err := s.FetchBills(context.Background()); err != nil {
		t.Fatal(err)
	}
	st := s.State()
	if got := keys(st.Bills); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("bills = %v", got)
	}
	if st.Loading || st.OpStatus(OpFetchAll) != StatusFulfilled {
		t.Fatalf("loading=%v status=%s", st.Loading, st.OpStatus(OpFetchAll))
	}
}

func TestFetchBillsRejected(t *testing.T) {
	api := &fakeAPI{err: &client.APIError{Kind: client.KindServer, Message: "boom", Status: 500}}
	s := New(api)

	_, err := s.FetchBills(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	st := s.State()
	if st.Loading {
		t.Fatal("rejected fetch must reset loading")
	}
	if st.Error == nil || st.Error.Message != "boom" || st.Error.Status != 500 {
		t.Fatalf("error = %+v", st.Error)
	}
	if st.OpStatus(OpFetchAll) != StatusRejected {
		t.Fatalf("status = %s", st.OpStatus(OpFetchAll))
	}
}

func TestFetchByIDPendingClearsCurrent(t *testing.T) {
	s := New(&fakeAPI{bills: seeded()})
	if _, err := s.FetchBill(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}
	st := s.Dispatch(Pending(OpFetchByID))
	if st.CurrentBill != nil || !st.Loading {
		t.Fatalf("pending should clear the current bill: %+v", st.CurrentBill)
	}

	_, err := s.FetchBill(context.Background(), "zzz")
	if !client.IsNotFound(err) {
		t.Fatalf("err = %v", err)
	}
	if st := s.State(); st.Loading || st.CurrentBill != nil {
		t.Fatal("not found should leave no current bill and reset loading")
	}
}

func TestCreateBillValidatesBeforeCalling(t *testing.T) {
	api := &fakeAPI{}
	s := New(api)

	_, err := s.CreateBill(context.Background(), models.BillDraft{PatientName: " ", Amount: models.AmountInput("-1")})
	apiErr := client.AsAPIError(err)
	if apiErr.Kind != client.KindValidation || apiErr.Status != 400 {
		t.Fatalf("err = %+v", apiErr)
	}
	want := []string{models.MsgPatientNameRequired, models.MsgAmountPositive}
	if !reflect.DeepEqual(apiErr.Errors, want) {
		t.Fatalf("errors = %v", apiErr.Errors)
	}
	if len(api.created) != 0 {
		t.Fatal("the API must not be called with an invalid draft")
	}
	if st := s.State(); st.Error == nil || st.OpStatus(OpCreate) != StatusRejected {
		t.Fatalf("state = %+v", st)
	}
}

func TestCreateBillAppendsWithDefaults(t *testing.T) {
	api := &fakeAPI{}
	s := New(api)
	s.Now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	s.Dispatch(Action{Op: OpFetchAll, Phase: StatusFulfilled, Bills: seeded()})

	bill, err := s.CreateBill(context.Background(), models.BillDraft{
		PatientName: "Divya",
		Amount:      models.NewAmount(300),
		ChargeType:  models.ChargeConsultation,
	})
	if err != nil {
		t.Fatal(err)
	}
	sent := api.created[0]
	if sent.ClientID == "" || sent.SerialNumber != 4 || sent.Status != models.StatusPending {
		t.Fatalf("draft defaults = %+v", sent)
	}
	if sent.BillDate != "2024-05-01T10:00:00Z" {
		t.Fatalf("billDate = %q", sent.BillDate)
	}
	if bill.Status != models.StatusPending {
		t.Fatalf("status = %s", bill.Status)
	}
	st := s.State()
	if got := keys(st.Bills); !reflect.DeepEqual(got, []string{"a", "b", "c", "srv-Divya"}) {
		t.Fatalf("bills = %v", got)
	}
}

func TestUpdateReplacesByKey(t *testing.T) {
	s := New(&fakeAPI{})
	s.Dispatch(Action{Op: OpFetchAll, Phase: StatusFulfilled, Bills: seeded()})

	draft := models.DraftFromBill(seeded()[1])
	draft.Status = models.StatusPaid
	if _, err := s.UpdateBill(context.Background(), "b", draft); err != nil {
		t.Fatal(err)
	}
	st := s.State()
	if st.Bills[1].ID != "b" || st.Bills[1].Status != models.StatusPaid || len(st.Bills) != 3 {
		t.Fatalf("bills = %+v", st.Bills)
	}

	before := s.State().Bills
	after := Reduce(s.State(), Action{Op: OpUpdate, Phase: StatusFulfilled, Bill: &models.Bill{ID: "missing"}})
	if !reflect.DeepEqual(after.Bills, before) {
		t.Fatal("updating an unknown bill must be a no-op")
	}
}

func TestDeleteRemovesAndDeselects(t *testing.T) {
	s := New(&fakeAPI{})
	s.Dispatch(Action{Op: OpFetchAll, Phase: StatusFulfilled, Bills: seeded()})
	if _, err := s.ApplySerialRange(billfilter.SerialRange{}); err != nil {
		t.Fatal(err)
	}
	s.ToggleSelection("b")
	s.ToggleSelection("c")

	if err := s.DeleteBill(context.Background(), "b"); err != nil {
		t.Fatal(err)
	}
	st := s.State()
	if got := keys(st.Bills); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("bills = %v", got)
	}
	if got := keys(st.View()); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("view = %v", got)
	}
	if st.Selected.Has("b") || !st.Selected.Has("c") {
		t.Fatalf("selection = %v", st.Selected.IDs())
	}
	if st.Loading {
		t.Fatal("loading should be reset")
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := NewState()
	s.Bills = seeded()
	s.Selected.Add("a")

	next := Reduce(s, Action{Op: OpDelete, Phase: StatusFulfilled, ID: "a"})
	if len(s.Bills) != 3 || !s.Selected.Has("a") {
		t.Fatal("input state was modified")
	}
	if len(next.Bills) != 2 || next.Selected.Has("a") {
		t.Fatalf("next = %+v", next)
	}
}

func TestOutOfOrderCompletion(t *testing.T) {
	// a delete that lands before a slower fetch is overwritten by it, and a
	// later delete still finds its bill by key
	s := New(&fakeAPI{})
	s.Dispatch(Pending(OpFetchAll))
	s.Dispatch(Pending(OpDelete))
	s.Dispatch(Action{Op: OpDelete, Phase: StatusFulfilled, ID: "b"})
	s.Dispatch(Action{Op: OpFetchAll, Phase: StatusFulfilled, Bills: seeded()})
	s.Dispatch(Action{Op: OpDelete, Phase: StatusFulfilled, ID: "c"})

	if got := keys(s.State().Bills); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("bills = %v", got)
	}
}

func TestSerialRangeRejectedLeavesState(t *testing.T) {
	s := New(&fakeAPI{})
	s.Dispatch(Action{Op: OpFetchAll, Phase: StatusFulfilled, Bills: seeded()})
	if _, err := s.ApplySerialRange(billfilter.SerialRange{Start: intPtr(2), End: intPtr(3)}); err != nil {
		t.Fatal(err)
	}
	before := s.State()

	_, err := s.ApplySerialRange(billfilter.SerialRange{Start: intPtr(5), End: intPtr(2)})
	if !errors.Is(err, billfilter.ErrInvalidSerialRange) {
		t.Fatalf("err = %v", err)
	}
	after := s.State()
	if !reflect.DeepEqual(keys(after.View()), keys(before.View())) || !reflect.DeepEqual(after.Selected, before.Selected) {
		t.Fatal("a rejected range must not change the view or selection")
	}
	if got := after.Selected.IDs(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("selection = %v", got)
	}
}

func TestSerialRangeNoBoundsResets(t *testing.T) {
	s := New(&fakeAPI{})
	s.Dispatch(Action{Op: OpFetchAll, Phase: StatusFulfilled, Bills: seeded()})
	s.ApplySerialRange(billfilter.SerialRange{End: intPtr(1)})

	if _, err := s.ApplySerialRange(billfilter.SerialRange{}); err != nil {
		t.Fatal(err)
	}
	st := s.State()
	if len(st.View()) != 3 || st.Selected.Len() != 0 {
		t.Fatalf("view=%v selected=%v", keys(st.View()), st.Selected.IDs())
	}
}

func TestBulkPrintFallback(t *testing.T) {
	api := &fakeAPI{bulk: map[string]error{
		"/bills/bulk-print": notFound(),
		"/bills/print/bulk": client.ErrUnexpectedFormat,
	}}
	s := New(api)

	bills, err := s.FetchBulkPrintBills(context.Background(), []string{"x", "y"})
	if err != nil {
		t.Fatal(err)
	}
	if got := keys(bills); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Fatalf("bills = %v", got)
	}
	want := []string{"/bills/bulk-print", "/bills/print/bulk", "/bills/invoices/bulk-print"}
	if !reflect.DeepEqual(api.bulkPaths, want) {
		t.Fatalf("paths = %v", api.bulkPaths)
	}
	st := s.State()
	if st.BulkPrintLoading || len(st.BulkPrintBills) != 2 {
		t.Fatalf("state = %+v", st)
	}
}

func TestBulkPrintStopsOnOtherErrors(t *testing.T) {
	api := &fakeAPI{bulk: map[string]error{
		"/bills/bulk-print": &client.APIError{Kind: client.KindServer, Message: "db down", Status: 500},
	}}
	s := New(api)

	_, err := s.FetchBulkPrintBills(context.Background(), []string{"x"})
	if client.AsAPIError(err).Status != 500 {
		t.Fatalf("err = %v", err)
	}
	if len(api.bulkPaths) != 1 {
		t.Fatalf("should stop after the first endpoint, tried %v", api.bulkPaths)
	}
	if st := s.State(); st.BulkPrintError == nil || st.BulkPrintLoading {
		t.Fatalf("state = %+v", st)
	}
}

func TestBulkPrintExhausted(t *testing.T) {
	api := &fakeAPI{bulk: map[string]error{}}
	for _, e := range BulkPrintEndpoints {
		api.bulk["/bills"+e] = notFound()
	}
	s := New(api)

	_, err := s.FetchBulkPrintBills(context.Background(), []string{"x"})
	if err == nil || err.Error() != "No valid bulk print endpoint found" {
		t.Fatalf("err = %v", err)
	}
}

func TestPrintSelected(t *testing.T) {
	api := &fakeAPI{bulk: map[string]error{}}
	s := New(api)
	s.Dispatch(Action{Op: OpFetchAll, Phase: StatusFulfilled, Bills: seeded()})

	if _, err := s.PrintSelected(context.Background()); !errors.Is(err, billfilter.ErrEmptySelection) {
		t.Fatalf("err = %v", err)
	}
	s.ToggleSelection("c")
	s.ToggleSelection("a")
	bills, err := s.PrintSelected(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := keys(bills); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("bills = %v", got)
	}
	s.ClearSelection()
	if s.State().Selected.Len() != 0 {
		t.Fatal("clear should empty the selection")
	}
}

func TestNextSerialHintAndFilter(t *testing.T) {
	s := New(&fakeAPI{})
	if s.NextSerialHint() != 1 {
		t.Fatal("empty store should hint serial 1")
	}
	s.Dispatch(Action{Op: OpFetchAll, Phase: StatusFulfilled, Bills: seeded()})
	if s.NextSerialHint() != 4 {
		t.Fatalf("hint = %d", s.NextSerialHint())
	}
	minAmount := 400.0
	if got := keys(s.Filter(billfilter.Criteria{MinAmount: &minAmount})); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("filtered = %v", got)
	}
}

func intPtr(v int) *int { return &v }

func TestDispatchReturnsSnapshot(t *testing.T) {
	s := New(&fakeAPI{})
	s.Dispatch(Action{Op: OpFetchAll, Phase: StatusFulfilled, Bills: seeded()})

	got := s.ToggleSelection("a")
	got.Selected.Add("b")
	got.Bills[0].PatientName = "changed"
	s.ClearSelection().Selected.Add("c")

	st := s.State()
	if st.Selected.Len() != 0 {
		t.Fatalf("selection leaked out of the store: %v", st.Selected.IDs())
	}
	if st.Bills[0].PatientName != "Asha" {
		t.Fatalf("bills leaked out of the store: %+v", st.Bills[0])
	}
}

func TestCreateRefreshesView(t *testing.T) {
	s := New(&fakeAPI{})
	s.Dispatch(Action{Op: OpFetchAll, Phase: StatusFulfilled, Bills: seeded()})
	if _, err := s.ApplySerialRange(billfilter.SerialRange{}); err != nil {
		t.Fatal(err)
	}

	if _, err := s.CreateBill(context.Background(), models.BillDraft{PatientName: "Divya", Amount: models.NewAmount(150)}); err != nil {
		t.Fatal(err)
	}
	if got := keys(s.State().View()); !reflect.DeepEqual(got, []string{"a", "b", "c", "srv-Divya"}) {
		t.Fatalf("view = %v", got)
	}
}
