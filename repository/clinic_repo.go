package repository

import (
	"context"

	"jyotikabilling/models"
)

// ClinicRepository keeps the latest clinic profile. GetClinic returns nil, nil
// before one has been saved.
type ClinicRepository interface {
	SaveClinic(ctx context.Context, clinic *models.ClinicProfile) error
	GetClinic(ctx context.Context) (*models.ClinicProfile, error)
}
