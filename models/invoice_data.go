package models

// InvoiceView is everything the invoice template prints for one bill.
type InvoiceView struct {
	Clinic      *ClinicProfile
	Bill        *Bill
	Contacts    string
	Serial      string
	Date        string
	Description string
	HSNCode     string
	AmountText  string
	AmountWords string
	Paid        bool
}
