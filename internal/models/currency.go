package models

import "strings"

// DefaultCurrency is assigned when a text carries no currency cue.
const DefaultCurrency = "RUB"

// CurrencyInfo describes how amounts in a currency are rounded and displayed.
type CurrencyInfo struct {
	Code        string `json:"code" yaml:"code"`
	Name        string `json:"name" yaml:"name"`
	Symbol      string `json:"symbol" yaml:"symbol"`
	Decimals    int32  `json:"decimal_places" yaml:"decimal_places"`
	SymbolFirst bool   `json:"symbol_first" yaml:"symbol_first"`
}

var currencies = map[string]CurrencyInfo{
	"USD": {Code: "USD", Name: "US Dollar", Symbol: "$", Decimals: 2, SymbolFirst: true},
	"EUR": {Code: "EUR", Name: "Euro", Symbol: "€", Decimals: 2, SymbolFirst: true},
	"RUB": {Code: "RUB", Name: "Russian Ruble", Symbol: "₽", Decimals: 2},
	"GBP": {Code: "GBP", Name: "British Pound", Symbol: "£", Decimals: 2, SymbolFirst: true},
	"CHF": {Code: "CHF", Name: "Swiss Franc", Symbol: "CHF", Decimals: 2},
	"JPY": {Code: "JPY", Name: "Japanese Yen", Symbol: "¥", Decimals: 0},
}

// LookupCurrency returns display information for code. Unknown codes get a
// generic entry using the code as symbol and two decimal places; ok reports
// whether the code was known.
func LookupCurrency(code string) (info CurrencyInfo, ok bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if info, ok = currencies[code]; ok {
		return info, true
	}
	return CurrencyInfo{Code: code, Name: code, Symbol: code, Decimals: 2}, false
}

// CurrencyPrecision returns the number of decimal places used for code.
func CurrencyPrecision(code string) int32 {
	info, _ := LookupCurrency(code)
	return info.Decimals
}
