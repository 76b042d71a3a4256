package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// TransactionBuilder provides a fluent API for constructing transactions
type TransactionBuilder struct {
	tx  Transaction
	err error
}

// NewTransactionBuilder creates a new TransactionBuilder with default values
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		tx: Transaction{
			Amount:    decimal.Zero,
			Currency:  DefaultCurrency,
			Recipient: UnknownRecipient,
		},
	}
}

// WithAmount sets the transaction amount and, when non-empty, the currency
func (b *TransactionBuilder) WithAmount(amount decimal.Decimal, currency string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if amount.IsNegative() {
		b.err = fmt.Errorf("amount cannot be negative: %s", amount.String())
		return b
	}
	b.tx.Amount = amount
	if currency != "" {
		return b.WithCurrency(currency)
	}
	return b
}

// WithCurrency sets the currency code. The code is upper-cased and must be
// three letters.
func (b *TransactionBuilder) WithCurrency(currency string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	code := strings.ToUpper(strings.TrimSpace(currency))
	if !currencyCodePattern.MatchString(code) {
		b.err = fmt.Errorf("invalid currency code '%s'", currency)
		return b
	}
	b.tx.Currency = code
	return b
}

// WithRecipient sets the recipient display name
func (b *TransactionBuilder) WithRecipient(name string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	name = strings.TrimSpace(name)
	if name == "" {
		b.err = errors.New("recipient cannot be empty")
		return b
	}
	b.tx.Recipient = name
	return b
}

// WithAccountNumber sets the account number; nil or blank leaves it absent
func (b *TransactionBuilder) WithAccountNumber(account *string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.AccountNumber = copyString(NilIfBlank(account))
	return b
}

// WithIBAN sets the IBAN; nil or blank leaves it absent
func (b *TransactionBuilder) WithIBAN(iban *string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.IBAN = copyString(NilIfBlank(iban))
	return b
}

// WithDescription sets the payment description; nil or blank leaves it absent
func (b *TransactionBuilder) WithDescription(description *string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Description = copyString(NilIfBlank(description))
	return b
}

// WithCreatedAt overrides the construction timestamp
func (b *TransactionBuilder) WithCreatedAt(createdAt time.Time) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if createdAt.IsZero() {
		b.err = errors.New("created_at cannot be zero")
		return b
	}
	b.tx.CreatedAt = createdAt
	return b
}

// Build returns the final Transaction. The amount is rounded to the currency
// precision. ID is always generated and CreatedAt is filled in when not set.
func (b *TransactionBuilder) Build() (Transaction, error) {
	if b.err != nil {
		return Transaction{}, fmt.Errorf("builder error: %w", b.err)
	}

	tx := b.tx
	tx.Amount = tx.Money().Rounded().Amount
	tx.ID = uuid.New().String()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	return tx, nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
