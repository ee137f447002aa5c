package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	ChargeConsultation = "Consultation"
	ChargeDelivery     = "Delivery"
	// ChargeOther is stored when a bill arrives without a charge type.
	ChargeOther = "Other"

	StatusPending = "Pending"
	StatusPaid    = "Paid"
	StatusOverdue = "Overdue"

	DefaultBillAddress = "Mainpuri"
)

var (
	ChargeTypes = []string{ChargeConsultation, ChargeDelivery}
	Statuses    = []string{StatusPending, StatusPaid, StatusOverdue}
)

type Bill struct {
	ID           string     `json:"_id,omitempty" bson:"_id,omitempty" db:"id"`
	ClientID     string     `json:"id,omitempty" bson:"client_id,omitempty" db:"client_id"`
	SerialNumber int        `json:"serialNumber" bson:"serial_number" db:"serial_number"`
	PatientName  string     `json:"patientName" bson:"patient_name" db:"patient_name"`
	GuardianName string     `json:"guardianName,omitempty" bson:"guardian_name,omitempty" db:"guardian_name"`
	Phone        string     `json:"phone,omitempty" bson:"phone,omitempty" db:"phone"`
	Address      string     `json:"address" bson:"address" db:"address"`
	BillDate     time.Time  `json:"billDate" bson:"bill_date" db:"bill_date"`
	ChargeType   string     `json:"chargeType" bson:"charge_type" db:"charge_type"`
	Status       string     `json:"status" bson:"status" db:"status"`
	Amount       float64    `json:"amount" bson:"amount" db:"amount"`
	CreatedBy    string     `json:"createdBy,omitempty" bson:"created_by,omitempty" db:"created_by"`
	CreatedAt    time.Time  `json:"createdAt" bson:"created_at" db:"created_at"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty" bson:"updated_at,omitempty" db:"updated_at"`
	PdfCreatedAt *time.Time `json:"pdfCreatedAt,omitempty" bson:"pdf_created_at,omitempty" db:"pdf_created_at"`
	PdfPath      *string    `json:"pdfPath,omitempty" bson:"pdf_path,omitempty" db:"pdf_path"`
}

// Key identifies the bill locally. The server-assigned ID wins over the
// client placeholder once the bill has been round-tripped.
func (b Bill) Key() string {
	if b.ID != "" {
		return b.ID
	}
	return b.ClientID
}

// SerialLabel is the serial number padded to three digits.
func (b Bill) SerialLabel() string {
	return fmt.Sprintf("%03d", b.SerialNumber)
}

func (b Bill) IsPaid() bool {
	return b.Status == StatusPaid
}

// BillDraft is the editable form of a bill as submitted by a client.
// Amount keeps the raw input so missing and non-numeric values can be reported.
type BillDraft struct {
	ClientID     string      `json:"id,omitempty"`
	SerialNumber int         `json:"serialNumber,omitempty"`
	PatientName  string      `json:"patientName" validate:"notblank"`
	GuardianName string      `json:"guardianName,omitempty"`
	Phone        string      `json:"phone,omitempty" validate:"omitempty,len=10,number"`
	Address      string      `json:"address,omitempty"`
	BillDate     string      `json:"billDate,omitempty"`
	ChargeType   string      `json:"chargeType,omitempty" validate:"omitempty,oneof=Consultation Delivery"`
	Status       string      `json:"status,omitempty" validate:"omitempty,oneof=Pending Paid Overdue"`
	Amount       AmountInput `json:"amount" validate:"positive_amount"`
}

// DraftFromBill turns a stored bill back into an editable draft.
func DraftFromBill(b Bill) BillDraft {
	d := BillDraft{
		ClientID:     b.ClientID,
		SerialNumber: b.SerialNumber,
		PatientName:  b.PatientName,
		GuardianName: b.GuardianName,
		Phone:        b.Phone,
		Address:      b.Address,
		ChargeType:   b.ChargeType,
		Status:       b.Status,
		Amount:       NewAmount(b.Amount),
	}
	if !b.BillDate.IsZero() {
		d.BillDate = b.BillDate.Format(time.RFC3339)
	}
	return d
}

// ToBill applies the server-side defaults to a draft. The draft is expected
// to have passed ValidateBill already.
func (d BillDraft) ToBill(now time.Time, defaultAddress string) (Bill, error) {
	amount, err := d.Amount.Float64()
	if err != nil {
		return Bill{}, err
	}

	billDate := now
	if strings.TrimSpace(d.BillDate) != "" {
		billDate, err = ParseDate(d.BillDate)
		if err != nil {
			return Bill{}, err
		}
	}

	b := Bill{
		ClientID:     d.ClientID,
		SerialNumber: d.SerialNumber,
		PatientName:  strings.TrimSpace(d.PatientName),
		GuardianName: strings.TrimSpace(d.GuardianName),
		Phone:        strings.TrimSpace(d.Phone),
		Address:      strings.TrimSpace(d.Address),
		BillDate:     billDate,
		ChargeType:   d.ChargeType,
		Status:       d.Status,
		Amount:       amount,
	}
	if b.Address == "" {
		b.Address = defaultAddress
	}
	if b.ChargeType == "" {
		b.ChargeType = ChargeOther
	}
	if b.Status == "" {
		b.Status = StatusPending
	}
	return b, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate accepts RFC3339 timestamps and plain calendar dates.
// A plain date is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
