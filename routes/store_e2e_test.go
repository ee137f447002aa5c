package routes

import (
	"context"
	"testing"

	"jyotikabilling/billfilter"
	"jyotikabilling/client"
	"jyotikabilling/models"
	"jyotikabilling/store"
	"jyotikabilling/utils"
)

func TestStoreAgainstServer(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	api := client.New(ts.URL+"/api", &client.MemoryTokenStore{})
	if _, err := api.Register(ctx, "Front Desk", "desk@clinic.in", "s3cret"); err != nil {
		t.Fatal(err)
	}
	s := store.New(api)

	created, err := s.CreateBill(ctx, models.BillDraft{
		PatientName: "Asha Devi",
		Amount:      models.NewAmount(300),
		ChargeType:  models.ChargeConsultation,
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.SerialNumber != 1 {
		t.Fatalf("created = %+v", created)
	}

	bills, err := s.FetchBills(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(bills) != 1 || bills[0].Status != models.StatusPending || bills[0].Address != models.DefaultBillAddress {
		t.Fatalf("bills = %+v", bills)
	}

	if _, err := s.ApplySerialRange(billfilter.SerialRange{}); err != nil {
		t.Fatal(err)
	}
	s.ToggleSelection(created.ID)
	printed, err := s.PrintSelected(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(printed) != 1 {
		t.Fatalf("printed = %+v", printed)
	}
	if words := utils.NewInvoiceView(nil, printed[0]).AmountWords; words != "Three Hundred Rupees Only" {
		t.Fatalf("words = %q", words)
	}

	if _, err := s.FetchBill(ctx, "does-not-exist"); !client.IsNotFound(err) {
		t.Fatalf("err = %v", err)
	}
	if err := s.DeleteBill(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if st := s.State(); len(st.Bills) != 0 || st.Loading {
		t.Fatalf("state after delete = %+v", st)
	}
}
