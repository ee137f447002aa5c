package repository

import (
	"context"
	"time"

	"jyotikabilling/models"
)

type FileClinicRepo struct {
	Store *FileStore
}

func NewFileClinicRepo(store *FileStore) *FileClinicRepo {
	return &FileClinicRepo{Store: store}
}

func (r *FileClinicRepo) SaveClinic(_ context.Context, clinic *models.ClinicProfile) error {
	return r.Store.update(func(d *fileData) error {
		if clinic.CreatedAt.IsZero() {
			clinic.CreatedAt = time.Now().UTC()
		}
		clinic.ID = clinicProfileID
		c := *clinic
		d.Clinic = &c
		return nil
	})
}

func (r *FileClinicRepo) GetClinic(_ context.Context) (*models.ClinicProfile, error) {
	var clinic *models.ClinicProfile
	r.Store.view(func(d *fileData) {
		if d.Clinic != nil {
			c := *d.Clinic
			clinic = &c
		}
	})
	return clinic, nil
}
