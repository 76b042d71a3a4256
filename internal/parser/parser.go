// Package parser turns transfer descriptions into canonical transaction
// records, either from an embedded JSON block or through the field extractor.
package parser

import (
	"time"

	"fjacquet/transfer-assistant/internal/currencyutils"
	"fjacquet/transfer-assistant/internal/extractor"
	"fjacquet/transfer-assistant/internal/logging"
	"fjacquet/transfer-assistant/internal/models"
	"fjacquet/transfer-assistant/internal/parsererror"
	"fjacquet/transfer-assistant/internal/textutils"
)

// FieldExtractor locates raw fields in free text.
type FieldExtractor interface {
	Extract(text string) (models.RawFields, error)
}

// Parser builds transaction records from text or raw fields.
type Parser struct {
	logger    logging.Logger
	extractor FieldExtractor
	now       func() time.Time
}

// New creates a Parser. A nil extractor uses the pattern extractor.
func New(logger logging.Logger, fields FieldExtractor) *Parser {
	logger = logging.OrDiscard(logger)
	if fields == nil {
		fields = extractor.New(logger)
	}
	return &Parser{
		logger:    logger,
		extractor: fields,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the clock used to stamp CreatedAt.
func (p *Parser) SetClock(now func() time.Time) {
	if now != nil {
		p.now = now
	}
}

// Parse builds a record from text. An embedded JSON object is used in
// preference to pattern extraction; a block that is not valid JSON is ignored.
func (p *Parser) Parse(text string) (models.Transaction, error) {
	if fields, ok := DecodeBlock(text); ok {
		p.logger.Debug("Using embedded structured block")
		return p.Build(fields)
	}

	fields, err := p.extractor.Extract(text)
	if err != nil {
		return models.Transaction{}, err
	}
	return p.Build(fields)
}

// Build validates presence and types of the raw fields and constructs the
// record. It fails with *parsererror.MalformedRecordError when amount,
// currency or recipient is missing, the amount is not a non-negative number,
// or the currency does not resolve to a three letter code.
func (p *Parser) Build(fields models.RawFields) (models.Transaction, error) {
	if missing := fields.Missing(); len(missing) > 0 {
		return models.Transaction{}, &parsererror.MalformedRecordError{
			Field:  missing[0],
			Reason: "mandatory field is absent",
			Err:    parsererror.ErrMissingField,
		}
	}

	rawAmount := *fields.Amount
	amount, err := currencyutils.ParseAmount(rawAmount)
	if err != nil {
		return models.Transaction{}, &parsererror.MalformedRecordError{
			Field:  "amount",
			Value:  rawAmount,
			Reason: "amount is not a number",
			Err:    err,
		}
	}
	if amount.IsNegative() {
		return models.Transaction{}, &parsererror.MalformedRecordError{
			Field:  "amount",
			Value:  rawAmount,
			Reason: "amount must not be negative",
		}
	}

	currency, ok := currencyutils.NormalizeCurrency(*fields.Currency)
	if !ok {
		return models.Transaction{}, &parsererror.MalformedRecordError{
			Field:  "currency",
			Value:  *fields.Currency,
			Reason: "currency does not resolve to a three letter code",
		}
	}

	recipient := textutils.NormalizeRecipient(*fields.Recipient)
	if recipient == "" {
		return models.Transaction{}, &parsererror.MalformedRecordError{
			Field:  "recipient",
			Value:  *fields.Recipient,
			Reason: "mandatory field is absent",
			Err:    parsererror.ErrMissingField,
		}
	}

	tx, err := models.NewTransactionBuilder().
		WithAmount(amount, currency).
		WithRecipient(recipient).
		WithAccountNumber(fields.AccountNumber).
		WithIBAN(fields.IBAN).
		WithDescription(fields.Description).
		WithCreatedAt(p.now()).
		Build()
	if err != nil {
		return models.Transaction{}, &parsererror.MalformedRecordError{
			Field:  "record",
			Reason: "record could not be constructed",
			Err:    err,
		}
	}

	p.logger.Debug("Built transaction record",
		logging.F(logging.FieldRecordID, tx.ID),
		logging.F(logging.FieldCurrency, tx.Currency))
	return tx, nil
}
