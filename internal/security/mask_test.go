package security

import (
	"testing"

	"fjacquet/transfer-assistant/internal/models"
	"fjacquet/transfer-assistant/internal/processor"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	tests := []struct {
		data string
		kind string
		want string
	}{
		{"40817810123456789012", KindAccount, "4081************9012"},
		{"DE89370400440532013000", KindIBAN, "DE89**************3000"},
		{"12345678", KindAccount, "********"},
		{"123", KindIBAN, "***"},
		{"", KindAccount, ""},
		{"ivan@example.com", KindEmail, "i***@example.com"},
		{"i@example.com", KindEmail, "i@example.com"},
		{"not-an-email", KindEmail, "not-an-email"},
		{"a@b@c", KindEmail, "a@b@c"},
		{"visible", "name", "visible"},
	}

	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.data, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.data, tt.kind))
		})
	}
}

func TestMaskResult(t *testing.T) {
	tx := models.Transaction{
		Amount:        decimal.NewFromInt(100),
		Currency:      "RUB",
		Recipient:     "Иван Петров",
		AccountNumber: models.Ptr("40817810123456789012"),
		IBAN:          models.Ptr("DE123"),
	}
	verdict := models.NewVerdict(nil, []string{"IBAN DE123 may be invalid", "account number 40817810123456789012 may be invalid"})
	original := processor.Result{
		Text:    "100 руб Иван Петров счет 40817810123456789012",
		Record:  &tx,
		Verdict: &verdict,
		Method:  processor.MethodPattern,
	}

	masked := MaskResult(original)

	require.NotNil(t, masked.Record)
	assert.Equal(t, "4081************9012", *masked.Record.AccountNumber)
	assert.Equal(t, "*****", *masked.Record.IBAN)
	assert.Equal(t, []string{"IBAN ***** may be invalid", "account number 4081************9012 may be invalid"}, masked.Verdict.Warnings)
	assert.Equal(t, "100 руб Иван Петров счет 4081************9012", masked.Text)

	assert.Equal(t, "40817810123456789012", *original.Record.AccountNumber)
	assert.Equal(t, "IBAN DE123 may be invalid", original.Verdict.Warnings[0])
	assert.Contains(t, original.Text, "40817810123456789012")
}

func TestMaskResult_WithoutRecord(t *testing.T) {
	r := processor.Result{Method: processor.MethodError, Error: "boom"}
	assert.Equal(t, r, MaskResult(r))
}
