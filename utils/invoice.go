package utils

import (
	"fmt"
	"strings"

	"jyotikabilling/models"
)

const (
	InvoiceHSNCode     = "9993"
	defaultDescription = "Medical Services"
	invoiceDateLayout  = "02/01/2006"
)

// NewInvoiceView prepares one bill for printing.
func NewInvoiceView(clinic *models.ClinicProfile, bill models.Bill) models.InvoiceView {
	description := bill.ChargeType
	if description == "" {
		description = defaultDescription
	}

	date := "-"
	if !bill.BillDate.IsZero() {
		date = bill.BillDate.Format(invoiceDateLayout)
	}

	return models.InvoiceView{
		Clinic:      clinic,
		Bill:        &bill,
		Contacts:    clinic.Contacts(),
		Serial:      bill.SerialLabel(),
		Date:        date,
		Description: description,
		HSNCode:     InvoiceHSNCode,
		AmountText:  FormatRupees(bill.Amount),
		AmountWords: ConvertToWords(bill.Amount),
		Paid:        bill.IsPaid(),
	}
}

func NewInvoiceViews(clinic *models.ClinicProfile, bills []models.Bill) []models.InvoiceView {
	views := make([]models.InvoiceView, 0, len(bills))
	for _, b := range bills {
		views = append(views, NewInvoiceView(clinic, b))
	}
	return views
}

// InvoiceText renders the invoice as plain text for terminals.
func InvoiceText(v models.InvoiceView) string {
	var sb strings.Builder
	if v.Clinic != nil && v.Clinic.ClinicName != "" {
		fmt.Fprintf(&sb, "%s\n", v.Clinic.ClinicName)
	}
	fmt.Fprintf(&sb, "Bill No: %s    Date: %s\n", v.Serial, v.Date)
	fmt.Fprintf(&sb, "Patient: %s\n", v.Bill.PatientName)
	if v.Bill.GuardianName != "" {
		fmt.Fprintf(&sb, "Guardian: %s\n", v.Bill.GuardianName)
	}
	if v.Bill.Address != "" {
		fmt.Fprintf(&sb, "Address: %s\n", v.Bill.Address)
	}
	fmt.Fprintf(&sb, "%-24s %-8s %12s\n", "Description", "HSN", "Amount")
	fmt.Fprintf(&sb, "%-24s %-8s %12s\n", v.Description, v.HSNCode, v.AmountText)
	fmt.Fprintf(&sb, "%s\n", v.AmountWords)
	if v.Paid {
		sb.WriteString("PAID\n")
	}
	return sb.String()
}
