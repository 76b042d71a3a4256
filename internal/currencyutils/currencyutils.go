// Package currencyutils provides amount parsing, currency code resolution and
// display formatting used throughout the application.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"fjacquet/transfer-assistant/internal/models"

	"github.com/shopspring/decimal"
)

var (
	amountNoise = regexp.MustCompile(`(?i)[€$£¥₽'\s\x{00A0}]|CHF|RUB|USD|EUR|GBP|JPY|руб\.?`)
	isoCode     = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

// isoCodes is the set of ISO 4217 codes recognised as real currencies.
var isoCodes = map[string]bool{
	"USD": true, "EUR": true, "RUB": true, "GBP": true, "CHF": true, "JPY": true,
	"CAD": true, "AUD": true, "CNY": true, "KRW": true, "INR": true, "BRL": true,
	"ZAR": true, "MXN": true, "SGD": true, "HKD": true, "NOK": true, "SEK": true,
	"DKK": true, "PLN": true, "CZK": true, "HUF": true, "TRY": true, "ILS": true,
}

// currencyAliases maps symbols and whole words to codes.
var currencyAliases = map[string]string{
	"₽": "RUB", "р": "RUB", "р.": "RUB", "руб": "RUB", "руб.": "RUB",
	"$": "USD", "dollar": "USD", "dollars": "USD",
	"€": "EUR", "евро": "EUR", "euro": "EUR", "euros": "EUR",
	"£": "GBP", "pound": "GBP", "pounds": "GBP",
	"¥": "JPY", "yen": "JPY",
	"fr.": "CHF", "franc": "CHF", "francs": "CHF",
}

// currencyStems maps word stems to codes for inflected forms such as
// "рублей" or "долларов".
var currencyStems = []struct {
	stem string
	code string
}{
	{"рубл", "RUB"},
	{"доллар", "USD"},
	{"фунт", "GBP"},
	{"йен", "JPY"},
	{"иен", "JPY"},
	{"франк", "CHF"},
}

// ParseAmount parses a string representation of an amount into a decimal value
// It handles various formats like "1,234.56", "1.234,56", "15 000", "1234,56"
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': empty value", amountStr)
	}

	standardized := StandardizeAmount(amountStr)

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// StandardizeAmount converts various currency string formats to a standard format that can be parsed by decimal.NewFromString
// Handles patterns like "1 234,56 ₽", "€1.234,56", "$1,234.56", "1'234.56", etc.
func StandardizeAmount(amountStr string) string {
	amountStr = amountNoise.ReplaceAllString(amountStr, "")

	switch {
	case strings.Contains(amountStr, ",") && strings.Contains(amountStr, "."):
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// European format (1.234,56)
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case strings.Count(amountStr, ".") > 1:
		// Dot grouped thousands (1.000.000)
		amountStr = strings.ReplaceAll(amountStr, ".", "")
	case strings.Contains(amountStr, ","):
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			// Comma used as decimal separator (1234,56)
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	return amountStr
}

// NormalizeCurrency resolves a currency code, symbol or name to an upper-case
// three letter code. Unknown three letter codes are accepted as they are.
func NormalizeCurrency(raw string) (string, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return "", false
	}
	if code, ok := currencyAliases[value]; ok {
		return code, true
	}
	for _, s := range currencyStems {
		if strings.HasPrefix(value, s.stem) {
			return s.code, true
		}
	}
	if isoCode.MatchString(value) {
		return strings.ToUpper(value), true
	}
	return "", false
}

// IsISOCode reports whether code is a commonly used ISO 4217 currency code.
func IsISOCode(code string) bool {
	return isoCodes[strings.ToUpper(strings.TrimSpace(code))]
}

// FormatAmount formats an amount for display with thousands separators, the
// currency's decimal places and its symbol. USD, EUR and GBP put the symbol
// first ("$2,500.00"); other currencies append it ("15,000.00 ₽").
func FormatAmount(amount decimal.Decimal, currency string) string {
	if currency == "" {
		return groupThousands(amount.StringFixed(2))
	}

	info, _ := models.LookupCurrency(currency)
	formatted := groupThousands(amount.StringFixed(info.Decimals))
	if info.SymbolFirst {
		if strings.HasPrefix(formatted, "-") {
			return "-" + info.Symbol + formatted[1:]
		}
		return info.Symbol + formatted
	}
	return formatted + " " + info.Symbol
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
