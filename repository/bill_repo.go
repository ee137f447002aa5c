package repository

import (
	"context"
	"errors"
	"time"

	"jyotikabilling/models"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrEmailExists = errors.New("email already exists")
)

// BillRepository stores bills. CreateBill assigns the ID, the serial number
// and the creation time; serial numbers come from a counter owned by the
// store so concurrent creates never share one.
type BillRepository interface {
	CreateBill(ctx context.Context, bill *models.Bill) error
	ListBills(ctx context.Context) ([]models.Bill, error)
	GetBill(ctx context.Context, id string) (*models.Bill, error)
	GetBillsByIDs(ctx context.Context, ids []string) ([]models.Bill, error)
	UpdateBill(ctx context.Context, bill *models.Bill) error
	DeleteBill(ctx context.Context, id string) error
	UpdatePDFInfo(ctx context.Context, id string, path string, createdAt time.Time) error
}

// orderByIDs returns bills in the order of ids, skipping unknown ids.
func orderByIDs(bills []models.Bill, ids []string) []models.Bill {
	byID := make(map[string]models.Bill, len(bills))
	for _, b := range bills {
		byID[b.ID] = b
	}
	out := make([]models.Bill, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok && !seen[id] {
			out = append(out, b)
			seen[id] = true
		}
	}
	return out
}
