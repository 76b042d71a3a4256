package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnknownRecipient is the recipient assigned when no recipient marker is found.
const UnknownRecipient = "unknown recipient"

// Transaction is the canonical transfer record built from one input text.
// Values are never modified after construction; use WithSensitive to derive a
// copy with replaced sensitive fields.
type Transaction struct {
	ID            string          `json:"id" yaml:"id"`
	Amount        decimal.Decimal `json:"amount" yaml:"amount"`
	Currency      string          `json:"currency" yaml:"currency"`
	Recipient     string          `json:"recipient" yaml:"recipient"`
	AccountNumber *string         `json:"account_number" yaml:"account_number"`
	IBAN          *string         `json:"iban" yaml:"iban"`
	Description   *string         `json:"description" yaml:"description"`
	CreatedAt     time.Time       `json:"created_at" yaml:"created_at"`
}

// Money returns the amount together with its currency.
func (t Transaction) Money() Money {
	return NewMoney(t.Amount, t.Currency)
}

// HasAccount reports whether an account number was extracted.
func (t Transaction) HasAccount() bool {
	return t.AccountNumber != nil
}

// HasIBAN reports whether an IBAN was extracted.
func (t Transaction) HasIBAN() bool {
	return t.IBAN != nil
}

// Account returns the account number or an empty string.
func (t Transaction) Account() string {
	return Deref(t.AccountNumber)
}

// IBANValue returns the IBAN or an empty string.
func (t Transaction) IBANValue() string {
	return Deref(t.IBAN)
}

// DescriptionValue returns the description or an empty string.
func (t Transaction) DescriptionValue() string {
	return Deref(t.Description)
}

// WithSensitive returns a copy of t whose account number and IBAN are
// replaced by the given values. Absent fields stay absent.
func (t Transaction) WithSensitive(transform func(string) string) Transaction {
	out := t
	if t.AccountNumber != nil {
		out.AccountNumber = Ptr(transform(*t.AccountNumber))
	}
	if t.IBAN != nil {
		out.IBAN = Ptr(transform(*t.IBAN))
	}
	if t.Description != nil {
		out.Description = Ptr(*t.Description)
	}
	return out
}

// RawFields holds the fields located in a text before they are turned into a
// Transaction. Amount, Currency and Recipient are mandatory for the builder;
// a nil member means the field was not found.
type RawFields struct {
	Amount        *string `json:"amount,omitempty"`
	Currency      *string `json:"currency,omitempty"`
	Recipient     *string `json:"recipient,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`
	IBAN          *string `json:"iban,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// Missing returns the names of absent or blank mandatory fields in the order
// amount, currency, recipient.
func (r RawFields) Missing() []string {
	var missing []string
	if isBlank(r.Amount) {
		missing = append(missing, "amount")
	}
	if isBlank(r.Currency) {
		missing = append(missing, "currency")
	}
	if isBlank(r.Recipient) {
		missing = append(missing, "recipient")
	}
	return missing
}

// Verdict is the outcome of validating one Transaction. Errors block the
// transfer, warnings do not.
type Verdict struct {
	IsValid  bool     `json:"is_valid" yaml:"is_valid"`
	Errors   []string `json:"errors" yaml:"errors"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// NewVerdict builds a Verdict from the collected messages. The slices are
// copied and never nil.
func NewVerdict(errs, warnings []string) Verdict {
	e := make([]string, len(errs))
	copy(e, errs)
	w := make([]string, len(warnings))
	copy(w, warnings)
	return Verdict{
		IsValid:  len(e) == 0,
		Errors:   e,
		Warnings: w,
	}
}

// Ptr returns a pointer to s.
func Ptr(s string) *string {
	return &s
}

// Deref returns the pointed-to string, or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NilIfBlank returns nil for nil or whitespace-only strings and s otherwise.
func NilIfBlank(s *string) *string {
	if isBlank(s) {
		return nil
	}
	return s
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
