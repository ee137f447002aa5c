package models

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MsgPatientNameRequired = "Patient name is required"
	MsgAmountPositive      = "Amount must be a positive number"
	MsgPhoneDigits         = "Phone number must be 10 digits"
	MsgInvalidChargeType   = "Invalid charge type. Must be one of: Consultation, Delivery"
	MsgInvalidStatus       = "Invalid status. Must be one of: Pending, Paid, Overdue"
)

// rule order of the reported messages
var billRules = []struct {
	field   string
	message string
}{
	{"PatientName", MsgPatientNameRequired},
	{"Amount", MsgAmountPositive},
	{"Phone", MsgPhoneDigits},
	{"ChargeType", MsgInvalidChargeType},
	{"Status", MsgInvalidStatus},
}

var billValidate = newBillValidator()

func newBillValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("positive_amount", func(fl validator.FieldLevel) bool {
		return AmountInput(fl.Field().String()).IsStorable()
	})
	return v
}

// ValidateBill checks a draft and returns every failing rule's message.
// An empty result means the draft may be submitted.
func ValidateBill(draft BillDraft) []string {
	err := billValidate.Struct(draft)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	failed := make(map[string]bool, len(verrs))
	for _, fe := range verrs {
		failed[fe.StructField()] = true
	}

	var messages []string
	for _, rule := range billRules {
		if failed[rule.field] {
			messages = append(messages, rule.message)
		}
	}
	return messages
}
