package repository

import (
	"context"

	"jyotikabilling/models"
)

// InvoiceRepository gathers what invoice rendering needs.
type InvoiceRepository struct {
	BillRepo   BillRepository
	ClinicRepo ClinicRepository
	// Fallback is printed until a clinic profile has been saved.
	Fallback *models.ClinicProfile
}

func NewInvoiceRepository(billRepo BillRepository, clinicRepo ClinicRepository, fallback *models.ClinicProfile) *InvoiceRepository {
	return &InvoiceRepository{
		BillRepo:   billRepo,
		ClinicRepo: clinicRepo,
		Fallback:   fallback,
	}
}

func (r *InvoiceRepository) GetBillForInvoice(ctx context.Context, id string) (*models.Bill, error) {
	return r.BillRepo.GetBill(ctx, id)
}

func (r *InvoiceRepository) GetBillsForInvoice(ctx context.Context, ids []string) ([]models.Bill, error) {
	return r.BillRepo.GetBillsByIDs(ctx, ids)
}

func (r *InvoiceRepository) GetClinicForInvoice(ctx context.Context) (*models.ClinicProfile, error) {
	if r.ClinicRepo != nil {
		clinic, err := r.ClinicRepo.GetClinic(ctx)
		if err != nil {
			return nil, err
		}
		if clinic != nil {
			return clinic, nil
		}
	}
	if r.Fallback != nil {
		return r.Fallback, nil
	}
	return &models.ClinicProfile{DefaultBillAddress: models.DefaultBillAddress}, nil
}
