package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"jyotikabilling/models"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "bills.json")
	store, err := OpenFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	return store, path
}

func TestFileBillRepoLifecycle(t *testing.T) {
	ctx := context.Background()
	store, path := newTestStore(t)
	repo := NewFileBillRepo(store)

	first := &models.Bill{PatientName: "Asha", Amount: 300, Status: models.StatusPending, ChargeType: models.ChargeConsultation}
	second := &models.Bill{PatientName: "Ravi", Amount: 500, Status: models.StatusPaid, ChargeType: models.ChargeDelivery}
	if err := repo.CreateBill(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := repo.CreateBill(ctx, second); err != nil {
		t.Fatal(err)
	}
	if first.ID == "" || first.SerialNumber != 1 || second.SerialNumber != 2 {
		t.Fatalf("ids/serials not assigned: %+v %+v", first, second)
	}

	got, err := repo.GetBill(ctx, first.ID)
	if err != nil || got.PatientName != "Asha" {
		t.Fatalf("GetBill = %+v, %v", got, err)
	}

	update := *first
	update.Status = models.StatusPaid
	update.SerialNumber = 99
	if err := repo.UpdateBill(ctx, &update); err != nil {
		t.Fatal(err)
	}
	if update.SerialNumber != 1 || update.UpdatedAt == nil || update.Status != models.StatusPaid {
		t.Fatalf("update should keep the serial and stamp updatedAt: %+v", update)
	}

	many, err := repo.GetBillsByIDs(ctx, []string{second.ID, "missing", first.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(many) != 2 || many[0].ID != second.ID || many[1].ID != first.ID {
		t.Fatalf("GetBillsByIDs order = %+v", many)
	}

	if err := repo.DeleteBill(ctx, second.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetBill(ctx, second.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteBill(ctx, second.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}

	// the serial counter never reuses a deleted number
	third := &models.Bill{PatientName: "Mira", Amount: 100}
	if err := repo.CreateBill(ctx, third); err != nil {
		t.Fatal(err)
	}
	if third.SerialNumber != 3 {
		t.Fatalf("serial = %d, want 3", third.SerialNumber)
	}

	reopened, err := OpenFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	bills, _ := NewFileBillRepo(reopened).ListBills(ctx)
	if len(bills) != 2 {
		t.Fatalf("reopened store has %d bills", len(bills))
	}
}

func TestFileBillRepoConcurrentSerials(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	repo := NewFileBillRepo(store)

	const n = 20
	var wg sync.WaitGroup
	serials := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := &models.Bill{PatientName: "P", Amount: 1}
			if err := repo.CreateBill(ctx, b); err != nil {
				t.Error(err)
				return
			}
			serials <- b.SerialNumber
		}()
	}
	wg.Wait()
	close(serials)

	seen := map[int]bool{}
	for s := range serials {
		if seen[s] {
			t.Fatalf("serial %d assigned twice", s)
		}
		seen[s] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d serials, want %d", len(seen), n)
	}
}

func TestFileBillRepoUpdatePDFInfo(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	repo := NewFileBillRepo(store)

	b := &models.Bill{PatientName: "Asha", Amount: 300}
	_ = repo.CreateBill(ctx, b)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := repo.UpdatePDFInfo(ctx, b.ID, "pdfs/bill_001.pdf", at); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.GetBill(ctx, b.ID)
	if got.PdfPath == nil || *got.PdfPath != "pdfs/bill_001.pdf" || !got.PdfCreatedAt.Equal(at) {
		t.Fatalf("pdf info = %+v", got)
	}
}

func TestFileUserAndClinicRepos(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	users := NewFileUserRepo(store)

	u := &models.AppUser{Name: "Desk", Email: "desk@clinic.in", Password: "hash", Role: "staff"}
	if err := users.CreateUser(ctx, u); err != nil {
		t.Fatal(err)
	}
	if err := users.CreateUser(ctx, &models.AppUser{Email: "DESK@clinic.in"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("err = %v, want ErrEmailExists", err)
	}
	got, err := users.GetUserByEmail(ctx, "desk@clinic.in")
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetUserByEmail = %+v, %v", got, err)
	}
	if none, _ := users.GetUserByEmail(ctx, "nobody@clinic.in"); none != nil {
		t.Fatal("expected no user")
	}

	clinics := NewFileClinicRepo(store)
	if c, _ := clinics.GetClinic(ctx); c != nil {
		t.Fatal("expected no clinic profile yet")
	}
	fallback := &models.ClinicProfile{ClinicName: "From TOML"}
	inv := NewInvoiceRepository(NewFileBillRepo(store), clinics, fallback)
	if c, _ := inv.GetClinicForInvoice(ctx); c.ClinicName != "From TOML" {
		t.Fatalf("fallback not used: %+v", c)
	}

	if err := clinics.SaveClinic(ctx, &models.ClinicProfile{ClinicName: "Saved"}); err != nil {
		t.Fatal(err)
	}
	if c, _ := inv.GetClinicForInvoice(ctx); c.ClinicName != "Saved" {
		t.Fatalf("saved profile not used: %+v", c)
	}
}

func TestOpenFileStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bills.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFileStore(path); err == nil {
		t.Fatal("expected a decode error")
	}
}
