package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/lib/pq"

	"jyotikabilling/models"
)

type PostgresBillRepo struct {
	DB *sql.DB
}

func NewPostgresBillRepo(db *sql.DB) *PostgresBillRepo {
	return &PostgresBillRepo{DB: db}
}

const billColumns = `
	id, client_id, serial_number, patient_name, guardian_name, phone, address,
	bill_date, charge_type, status, amount, created_by, created_at, updated_at,
	pdf_created_at, pdf_path`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (models.Bill, error) {
	var b models.Bill
	var clientID sql.NullString
	err := row.Scan(
		&b.ID, &clientID, &b.SerialNumber, &b.PatientName, &b.GuardianName, &b.Phone, &b.Address,
		&b.BillDate, &b.ChargeType, &b.Status, &b.Amount, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
		&b.PdfCreatedAt, &b.PdfPath,
	)
	b.ClientID = clientID.String
	return b, err
}

func parseBillID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	return n, err == nil
}

// CreateBill inserts the bill; the serial number comes from bill_serial_seq.
func (r *PostgresBillRepo) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = time.Now().UTC()
	}

	var clientID sql.NullString
	if bill.ClientID != "" {
		clientID = sql.NullString{String: bill.ClientID, Valid: true}
	}

	return r.DB.QueryRowContext(ctx, `
		INSERT INTO bill (client_id, patient_name, guardian_name, phone, address,
			bill_date, charge_type, status, amount, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, serial_number
	`, clientID, bill.PatientName, bill.GuardianName, bill.Phone, bill.Address,
		bill.BillDate, bill.ChargeType, bill.Status, bill.Amount, bill.CreatedBy, bill.CreatedAt,
	).Scan(&bill.ID, &bill.SerialNumber)
}

func (r *PostgresBillRepo) ListBills(ctx context.Context) ([]models.Bill, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+billColumns+` FROM bill ORDER BY serial_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bills := []models.Bill{}
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (r *PostgresBillRepo) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	billID, ok := parseBillID(id)
	if !ok {
		return nil, ErrNotFound
	}

	b, err := scanBill(r.DB.QueryRowContext(ctx, `SELECT `+billColumns+` FROM bill WHERE id = $1`, billID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PostgresBillRepo) GetBillsByIDs(ctx context.Context, ids []string) ([]models.Bill, error) {
	billIDs := make([]int64, 0, len(ids))
	for _, id := range ids {
		if n, ok := parseBillID(id); ok {
			billIDs = append(billIDs, n)
		}
	}
	if len(billIDs) == 0 {
		return []models.Bill{}, nil
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT `+billColumns+` FROM bill WHERE id = ANY($1)`, pq.Array(billIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orderByIDs(bills, ids), nil
}

// UpdateBill replaces the editable fields. Serial number, creator and
// creation time are kept.
func (r *PostgresBillRepo) UpdateBill(ctx context.Context, bill *models.Bill) error {
	billID, ok := parseBillID(bill.ID)
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()

	b, err := scanBill(r.DB.QueryRowContext(ctx, `
		UPDATE bill
		SET patient_name=$1, guardian_name=$2, phone=$3, address=$4, bill_date=$5,
			charge_type=$6, status=$7, amount=$8, updated_at=$9
		WHERE id=$10
		RETURNING `+billColumns,
		bill.PatientName, bill.GuardianName, bill.Phone, bill.Address, bill.BillDate,
		bill.ChargeType, bill.Status, bill.Amount, now, billID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	*bill = b
	return nil
}

func (r *PostgresBillRepo) DeleteBill(ctx context.Context, id string) error {
	billID, ok := parseBillID(id)
	if !ok {
		return ErrNotFound
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM bill WHERE id=$1`, billID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresBillRepo) UpdatePDFInfo(ctx context.Context, id string, path string, createdAt time.Time) error {
	billID, ok := parseBillID(id)
	if !ok {
		return ErrNotFound
	}
	_, err := r.DB.ExecContext(ctx, `UPDATE bill SET pdf_path=$1, pdf_created_at=$2 WHERE id=$3`, path, createdAt, billID)
	return err
}
