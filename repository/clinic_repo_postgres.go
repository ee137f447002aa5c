package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"jyotikabilling/models"
)

type PostgresClinicRepo struct {
	DB *sql.DB
}

func NewPostgresClinicRepo(db *sql.DB) *PostgresClinicRepo {
	return &PostgresClinicRepo{DB: db}
}

// SaveClinic updates the profile when it carries an ID and inserts otherwise.
func (r *PostgresClinicRepo) SaveClinic(ctx context.Context, clinic *models.ClinicProfile) error {
	if clinic.CreatedAt.IsZero() {
		clinic.CreatedAt = time.Now().UTC()
	}
	if clinic.Mobile == nil {
		clinic.Mobile = []models.MobileEntry{}
	}

	mobileJSON, err := json.Marshal(clinic.Mobile)
	if err != nil {
		return err
	}

	if id, err := strconv.ParseInt(clinic.ID, 10, 64); err == nil && id > 0 {
		res, err := r.DB.ExecContext(ctx, `
			UPDATE clinic_profile
			SET clinic_name=$1, doctor_name=$2, address=$3, city=$4, state=$5, pincode=$6,
				gstin=$7, footnote=$8, default_bill_address=$9, mobile=$10
			WHERE id=$11
		`, clinic.ClinicName, clinic.DoctorName, clinic.Address, clinic.City, clinic.State, clinic.Pincode,
			clinic.GSTIN, clinic.Footnote, clinic.DefaultBillAddress, mobileJSON, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}
	}

	return r.DB.QueryRowContext(ctx, `
		INSERT INTO clinic_profile
		(clinic_name, doctor_name, address, city, state, pincode, gstin, footnote, default_bill_address, mobile, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`, clinic.ClinicName, clinic.DoctorName, clinic.Address, clinic.City, clinic.State, clinic.Pincode,
		clinic.GSTIN, clinic.Footnote, clinic.DefaultBillAddress, mobileJSON, clinic.CreatedAt).Scan(&clinic.ID)
}

// GetClinic fetches the latest profile.
func (r *PostgresClinicRepo) GetClinic(ctx context.Context) (*models.ClinicProfile, error) {
	clinic := &models.ClinicProfile{}
	var mobileJSON []byte

	err := r.DB.QueryRowContext(ctx, `
		SELECT id, clinic_name, doctor_name, address, city, state, pincode, gstin, footnote,
			default_bill_address, mobile, created_at
		FROM clinic_profile
		ORDER BY id DESC LIMIT 1
	`).Scan(&clinic.ID, &clinic.ClinicName, &clinic.DoctorName, &clinic.Address, &clinic.City, &clinic.State,
		&clinic.Pincode, &clinic.GSTIN, &clinic.Footnote, &clinic.DefaultBillAddress, &mobileJSON, &clinic.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if len(mobileJSON) > 0 {
		if err := json.Unmarshal(mobileJSON, &clinic.Mobile); err != nil {
			return nil, err
		}
	}
	return clinic, nil
}
