package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"jyotikabilling/models"
)

type FileBillRepo struct {
	Store *FileStore
}

func NewFileBillRepo(store *FileStore) *FileBillRepo {
	return &FileBillRepo{Store: store}
}

func (r *FileBillRepo) CreateBill(_ context.Context, bill *models.Bill) error {
	return r.Store.update(func(d *fileData) error {
		d.LastSerial++
		bill.ID = uuid.NewString()
		bill.SerialNumber = d.LastSerial
		if bill.CreatedAt.IsZero() {
			bill.CreatedAt = time.Now().UTC()
		}
		d.Bills = append(d.Bills, *bill)
		return nil
	})
}

func (r *FileBillRepo) ListBills(_ context.Context) ([]models.Bill, error) {
	var bills []models.Bill
	r.Store.view(func(d *fileData) {
		bills = make([]models.Bill, len(d.Bills))
		copy(bills, d.Bills)
	})
	return bills, nil
}

func (r *FileBillRepo) GetBill(_ context.Context, id string) (*models.Bill, error) {
	var found *models.Bill
	r.Store.view(func(d *fileData) {
		for i := range d.Bills {
			if d.Bills[i].ID == id {
				b := d.Bills[i]
				found = &b
				return
			}
		}
	})
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (r *FileBillRepo) GetBillsByIDs(ctx context.Context, ids []string) ([]models.Bill, error) {
	bills, err := r.ListBills(ctx)
	if err != nil {
		return nil, err
	}
	return orderByIDs(bills, ids), nil
}

func (r *FileBillRepo) UpdateBill(_ context.Context, bill *models.Bill) error {
	return r.Store.update(func(d *fileData) error {
		for i := range d.Bills {
			if d.Bills[i].ID != bill.ID {
				continue
			}
			now := time.Now().UTC()
			cur := &d.Bills[i]
			cur.PatientName = bill.PatientName
			cur.GuardianName = bill.GuardianName
			cur.Phone = bill.Phone
			cur.Address = bill.Address
			cur.BillDate = bill.BillDate
			cur.ChargeType = bill.ChargeType
			cur.Status = bill.Status
			cur.Amount = bill.Amount
			cur.UpdatedAt = &now
			*bill = *cur
			return nil
		}
		return ErrNotFound
	})
}

func (r *FileBillRepo) DeleteBill(_ context.Context, id string) error {
	return r.Store.update(func(d *fileData) error {
		for i := range d.Bills {
			if d.Bills[i].ID == id {
				d.Bills = append(d.Bills[:i], d.Bills[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

func (r *FileBillRepo) UpdatePDFInfo(_ context.Context, id string, path string, createdAt time.Time) error {
	return r.Store.update(func(d *fileData) error {
		for i := range d.Bills {
			if d.Bills[i].ID == id {
				p, t := path, createdAt
				d.Bills[i].PdfPath = &p
				d.Bills[i].PdfCreatedAt = &t
				return nil
			}
		}
		return ErrNotFound
	})
}
