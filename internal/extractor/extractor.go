// Package extractor locates transfer fields in free text with ordered
// pattern matching.
package extractor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"fjacquet/transfer-assistant/internal/currencyutils"
	"fjacquet/transfer-assistant/internal/logging"
	"fjacquet/transfer-assistant/internal/models"
	"fjacquet/transfer-assistant/internal/parsererror"
	"fjacquet/transfer-assistant/internal/textutils"
)

const snippetLength = 50

// Extractor turns transfer descriptions into raw fields.
type Extractor struct {
	logger          logging.Logger
	defaultCurrency string
}

// New creates an Extractor. A nil logger discards output.
func New(logger logging.Logger) *Extractor {
	return &Extractor{
		logger:          logging.OrDiscard(logger),
		defaultCurrency: models.DefaultCurrency,
	}
}

// Extract locates amount, currency, recipient, account number, IBAN and
// description in text. Only the amount is mandatory: text without any digit
// fails with *parsererror.ExtractionError. The recipient falls back to
// models.UnknownRecipient and the currency to models.DefaultCurrency.
func (e *Extractor) Extract(text string) (models.RawFields, error) {
	text = textutils.NormalizeInput(text)

	amount, currency, cued := e.FindAmount(text)
	if amount == "" {
		return models.RawFields{}, &parsererror.ExtractionError{
			Field:   "amount",
			Snippet: textutils.Truncate(strings.TrimSpace(text), snippetLength),
			Reason:  "no numeric token in text",
		}
	}

	fields := models.RawFields{
		Amount:        models.Ptr(currencyutils.StandardizeAmount(amount)),
		Currency:      models.Ptr(currency),
		Recipient:     models.Ptr(FindRecipient(text)),
		AccountNumber: findGroup(accountPattern.FindStringSubmatch(text)),
		IBAN:          findGroup(ibanPattern.FindStringSubmatch(text)),
		Description:   FindDescription(text),
	}

	e.logger.Debug("Extracted fields with patterns",
		logging.F(logging.FieldCurrency, currency),
		logging.F("currency_cued", cued),
		logging.F("has_account", fields.AccountNumber != nil),
		logging.F("has_iban", fields.IBAN != nil),
		logging.F("has_description", fields.Description != nil))

	return fields, nil
}

// FindAmount returns the amount token and its currency. Currency cues are
// tried in CuePriority order; without any cue the first number in the text is
// used with the default currency and cued is false. An empty amount means the
// text has no digits.
func (e *Extractor) FindAmount(text string) (amount, currency string, cued bool) {
	for _, cue := range currencyCues {
		if n := cue.find(text); n != "" {
			return n, cue.Currency, true
		}
	}
	if m := bareNumber.FindStringSubmatch(text); m != nil {
		return m[1], e.defaultCurrency, false
	}
	return "", "", false
}

// FindRecipient returns the name following the first recipient marker that is
// followed by a name, or models.UnknownRecipient.
func FindRecipient(text string) string {
	for _, loc := range recipientMarker.FindAllStringIndex(text, -1) {
		if name := collectName(text[loc[1]:]); name != "" {
			return name
		}
	}
	return models.UnknownRecipient
}

// collectName reads name words from the start of rest. It stops at a stop
// word, punctuation, a digit, a line break, two or more whitespace characters
// or the end of the string.
func collectName(rest string) string {
	var words []string
	skippedLead := false

	for {
		gap := leadingSpace(rest)
		if len(words) > 0 && (strings.Contains(gap, "\n") || utf8.RuneCountInString(gap) > 1) {
			break
		}
		rest = rest[len(gap):]

		word := nameWord.FindString(rest)
		if word == "" {
			break
		}
		key := strings.ToLower(strings.Trim(word, `.,"'«»“”„’`))
		if recipientStopWords[key] {
			break
		}
		rest = rest[len(word):]
		if len(words) == 0 && !skippedLead && recipientLeadWords[key] {
			skippedLead = true
			continue
		}
		words = append(words, word)
	}

	if len(words) == 0 {
		return ""
	}
	return textutils.NormalizeRecipient(strings.Join(words, " "))
}

func leadingSpace(s string) string {
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) })
	if end < 0 {
		return s
	}
	return s[:end]
}

// FindDescription returns the free text after a description marker up to the
// next comma or line break.
func FindDescription(text string) *string {
	for _, marker := range descriptionMarkers {
		if d := findGroup(marker.FindStringSubmatch(text)); d != nil {
			return d
		}
	}
	return nil
}

func findGroup(m []string) *string {
	if len(m) < 2 {
		return nil
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return nil
	}
	return &v
}
