package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransactionBuilder(t *testing.T) {
	builder := NewTransactionBuilder()

	assert.NotNil(t, builder)
	assert.Nil(t, builder.err)
	assert.Equal(t, DefaultCurrency, builder.tx.Currency)
	assert.Equal(t, UnknownRecipient, builder.tx.Recipient)
	assert.True(t, builder.tx.Amount.IsZero())
}

func TestTransactionBuilder_WithAmount(t *testing.T) {
	tests := []struct {
		name             string
		amount           decimal.Decimal
		currency         string
		expectError      bool
		expectedCurrency string
	}{
		{
			name:             "positive amount with currency",
			amount:           decimal.NewFromInt(15000),
			currency:         "rub",
			expectedCurrency: "RUB",
		},
		{
			name:             "zero amount keeps default currency",
			amount:           decimal.Zero,
			currency:         "",
			expectedCurrency: DefaultCurrency,
		},
		{
			name:        "negative amount",
			amount:      decimal.NewFromInt(-1),
			currency:    "USD",
			expectError: true,
		},
		{
			name:        "invalid currency",
			amount:      decimal.NewFromInt(10),
			currency:    "US$",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewTransactionBuilder().WithAmount(tt.amount, tt.currency)

			if tt.expectError {
				assert.Error(t, builder.err)
				return
			}
			assert.NoError(t, builder.err)
			assert.True(t, tt.amount.Equal(builder.tx.Amount))
			assert.Equal(t, tt.expectedCurrency, builder.tx.Currency)
		})
	}
}

func TestTransactionBuilder_WithRecipient(t *testing.T) {
	builder := NewTransactionBuilder().WithRecipient("  Mueller GmbH ")
	require.NoError(t, builder.err)
	assert.Equal(t, "Mueller GmbH", builder.tx.Recipient)

	builder = NewTransactionBuilder().WithRecipient("   ")
	assert.Error(t, builder.err)
}

func TestTransactionBuilder_OptionalFields(t *testing.T) {
	tx, err := NewTransactionBuilder().
		WithAmount(decimal.NewFromInt(1200), "EUR").
		WithRecipient("Mueller GmbH").
		WithIBAN(Ptr("DE89370400440532013000")).
		WithAccountNumber(Ptr("  ")).
		WithDescription(nil).
		Build()

	require.NoError(t, err)
	require.NotNil(t, tx.IBAN)
	assert.Equal(t, "DE89370400440532013000", *tx.IBAN)
	assert.Nil(t, tx.AccountNumber)
	assert.Nil(t, tx.Description)
}

func TestTransactionBuilder_OptionalFieldsAreCopied(t *testing.T) {
	account := "40817810123456789012"
	tx, err := NewTransactionBuilder().
		WithAmount(decimal.NewFromInt(500), "RUB").
		WithAccountNumber(&account).
		Build()
	require.NoError(t, err)

	account = "changed"
	assert.Equal(t, "40817810123456789012", tx.Account())
}

func TestTransactionBuilder_Build(t *testing.T) {
	t.Run("rounds to currency precision", func(t *testing.T) {
		tx, err := NewTransactionBuilder().
			WithAmount(decimal.RequireFromString("1000.6"), "JPY").
			Build()
		require.NoError(t, err)
		assert.Equal(t, "1001", tx.Amount.String())

		tx, err = NewTransactionBuilder().
			WithAmount(decimal.RequireFromString("10.456"), "USD").
			Build()
		require.NoError(t, err)
		assert.Equal(t, "10.46", tx.Amount.String())
	})

	t.Run("stamps ID and CreatedAt", func(t *testing.T) {
		tx, err := NewTransactionBuilder().WithAmount(decimal.NewFromInt(100), "RUB").Build()
		require.NoError(t, err)

		_, parseErr := uuid.Parse(tx.ID)
		assert.NoError(t, parseErr)
		assert.False(t, tx.CreatedAt.IsZero())
	})

	t.Run("keeps explicit CreatedAt", func(t *testing.T) {
		created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
		tx, err := NewTransactionBuilder().
			WithCreatedAt(created).
			Build()
		require.NoError(t, err)
		assert.Equal(t, created, tx.CreatedAt)
	})

	t.Run("sticky error", func(t *testing.T) {
		_, err := NewTransactionBuilder().
			WithAmount(decimal.NewFromInt(-5), "RUB").
			WithRecipient("Ivan").
			Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "builder error")
		assert.Contains(t, err.Error(), "negative")
	})
}
