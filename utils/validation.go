// utils/validation.go
package utils

import (
	"errors"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Fields is a submitted form: any string-keyed container such as url.Values.
type Fields interface {
	Get(key string) string
}

// FieldErrors maps a form field name to its messages, in order.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FieldErrors) Has(field string) bool {
	return len(e[field]) > 0
}

// InvoiceSubmission is the raw invoice form as posted by the browser.
type InvoiceSubmission struct {
	CustomerID string `form:"customerId" validate:"required"`
	Amount     string `form:"amount" validate:"positive_amount"`
	Status     string `form:"status" validate:"required,oneof=paid pending"`
}

// ValidInvoice is an invoice form that passed validation.
type ValidInvoice struct {
	CustomerID string
	Amount     decimal.Decimal
	Status     string
}

var hundred = decimal.NewFromInt(100)

// AmountInCents converts the major-unit amount to minor units, rounding half away from zero.
func (v ValidInvoice) AmountInCents() int64 {
	return v.Amount.Mul(hundred).Round(0).IntPart()
}

type CredentialsForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

var invoiceMessages = map[string]string{
	"customerId": "Please Select a Customer",
	"amount":     "Please enter a valid amount",
	"status":     "Please Select a Status",
}

var credentialMessages = map[string]string{
	"email":    "Please enter a valid email address",
	"password": "Password must be at least 6 characters",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("positive_amount", func(fl validator.FieldLevel) bool {
		_, ok := ParseAmount(fl.Field().String())
		return ok
	}); err != nil {
		panic(err)
	}
	return v
}

// Anything above this would overflow int64 once converted to cents.
var maxAmount = decimal.NewFromInt(math.MaxInt64).Div(hundred)

// Plain decimals only: no sign, no exponent, bounded length.
var amountPattern = regexp.MustCompile(`^\d{1,17}(\.\d{1,4})?$`)

// ParseAmount reads a decimal amount in major units. Only plain decimals
// worth at least one cent once rounded are accepted.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if !amountPattern.MatchString(raw) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() || d.GreaterThan(maxAmount) {
		return decimal.Zero, false
	}
	if d.Mul(hundred).Round(0).Sign() <= 0 {
		return decimal.Zero, false
	}
	return d, true
}

// ValidateInvoiceForm applies the invoice schema to a submitted form. Either
// the returned FieldErrors is empty and the ValidInvoice is usable, or it
// names every offending field.
func ValidateInvoiceForm(fields Fields) (ValidInvoice, FieldErrors) {
	form := InvoiceSubmission{
		CustomerID: strings.TrimSpace(fields.Get("customerId")),
		Amount:     strings.TrimSpace(fields.Get("amount")),
		Status:     strings.TrimSpace(fields.Get("status")),
	}
	if errs := validateForm(form, invoiceMessages); len(errs) > 0 {
		return ValidInvoice{}, errs
	}
	amount, _ := ParseAmount(form.Amount)
	return ValidInvoice{CustomerID: form.CustomerID, Amount: amount, Status: form.Status}, nil
}

func ValidateCredentials(fields Fields) (CredentialsForm, FieldErrors) {
	form := CredentialsForm{
		Email:    strings.TrimSpace(fields.Get("email")),
		Password: fields.Get("password"),
	}
	if errs := validateForm(form, credentialMessages); len(errs) > 0 {
		return CredentialsForm{}, errs
	}
	return form, nil
}

func validateForm(form any, messages map[string]string) FieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	errs := FieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("form", err.Error())
		return errs
	}
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = "Invalid value"
		}
		errs.Add(fe.Field(), msg)
	}
	return errs
}
