package models

import (
	"strings"
	"time"
)

type MobileEntry struct {
	Number string `json:"number" bson:"number" db:"number" mapstructure:"number"`
	Label  string `json:"label" bson:"label" db:"label" mapstructure:"label"`
}

// ClinicProfile is the letterhead printed on every invoice.
type ClinicProfile struct {
	ID                 string        `json:"id" bson:"_id,omitempty" db:"id"`
	ClinicName         string        `json:"clinic_name" bson:"clinic_name" db:"clinic_name" mapstructure:"name"`
	DoctorName         string        `json:"doctor_name" bson:"doctor_name" db:"doctor_name" mapstructure:"doctor_name"`
	Address            string        `json:"address" bson:"address" db:"address" mapstructure:"address"`
	City               string        `json:"city" bson:"city" db:"city" mapstructure:"city"`
	State              string        `json:"state" bson:"state" db:"state" mapstructure:"state"`
	Pincode            string        `json:"pincode" bson:"pincode" db:"pincode" mapstructure:"pincode"`
	GSTIN              string        `json:"gstin" bson:"gstin" db:"gstin" mapstructure:"gstin"`
	Footnote           string        `json:"footnote" bson:"footnote" db:"footnote" mapstructure:"footnote"`
	DefaultBillAddress string        `json:"default_bill_address" bson:"default_bill_address" db:"default_bill_address" mapstructure:"default_bill_address"`
	Mobile             []MobileEntry `json:"mobile" bson:"mobile" db:"mobile" mapstructure:"mobile"`
	CreatedAt          time.Time     `json:"created_at" bson:"created_at" db:"created_at"`
}

// Contacts formats the mobile entries as "number(label), number(label)".
func (c *ClinicProfile) Contacts() string {
	if c == nil {
		return ""
	}
	parts := make([]string, 0, len(c.Mobile))
	for _, m := range c.Mobile {
		if m.Label == "" {
			parts = append(parts, m.Number)
			continue
		}
		parts = append(parts, m.Number+"("+m.Label+")")
	}
	return strings.Join(parts, ", ")
}

// BillAddress is the address stamped on bills created without one.
func (c *ClinicProfile) BillAddress() string {
	if c == nil || strings.TrimSpace(c.DefaultBillAddress) == "" {
		return DefaultBillAddress
	}
	return c.DefaultBillAddress
}
