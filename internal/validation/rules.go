package validation

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// RuleSet holds the business rule tables used by the Validator. A Validator
// copies the RuleSet it is given, so later changes to the value do not affect
// it.
type RuleSet struct {
	SupportedCurrencies []string                   `yaml:"supported_currencies"`
	MaxAmounts          map[string]decimal.Decimal `yaml:"max_amounts"`
	MinAmounts          map[string]decimal.Decimal `yaml:"min_amounts"`
	BlockedKeywords     []string                   `yaml:"blocked_keywords"`

	RecipientMinLength int `yaml:"recipient_min_length"`
	RecipientMaxLength int `yaml:"recipient_max_length"`

	// IBANLengths maps a country code to its exact IBAN length.
	IBANLengths             map[string]int `yaml:"iban_lengths"`
	DisallowedIBANCountries []string       `yaml:"disallowed_iban_countries"`
	RussianAccountPrefixes  []string       `yaml:"russian_account_prefixes"`

	DomesticCurrency        string          `yaml:"domestic_currency"`
	DomesticReviewThreshold decimal.Decimal `yaml:"domestic_review_threshold"`
	ForeignReviewCurrencies []string        `yaml:"foreign_review_currencies"`
	ForeignReviewThreshold  decimal.Decimal `yaml:"foreign_review_threshold"`
}

// DefaultRules returns the built-in rule tables.
func DefaultRules() RuleSet {
	return RuleSet{
		SupportedCurrencies: []string{"USD", "EUR", "RUB", "GBP", "CHF", "JPY"},
		MaxAmounts: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(10000),
			"EUR": decimal.NewFromInt(8500),
			"RUB": decimal.NewFromInt(750000),
		},
		MinAmounts: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
			"EUR": decimal.NewFromInt(1),
			"RUB": decimal.NewFromInt(100),
		},
		BlockedKeywords: []string{
			"санкции", "санкционный", "blocked", "forbidden",
			"террор", "экстремизм", "наркотик", "оружие",
			"sanction", "terror", "extremis", "narcotic", "weapon",
		},
		RecipientMinLength: 2,
		RecipientMaxLength: 100,
		IBANLengths: map[string]int{
			"RU": 33,
			"DE": 22,
			"FR": 27,
			"GB": 22,
		},
		DisallowedIBANCountries: []string{"US"},
		RussianAccountPrefixes:  []string{"408", "407", "405", "423", "426"},
		DomesticCurrency:        "RUB",
		DomesticReviewThreshold: decimal.NewFromInt(100000),
		ForeignReviewCurrencies: []string{"USD", "EUR"},
		ForeignReviewThreshold:  decimal.NewFromInt(5000),
	}
}

// Clone returns a deep copy of r.
func (r RuleSet) Clone() RuleSet {
	out := r
	out.SupportedCurrencies = cloneStrings(r.SupportedCurrencies)
	out.BlockedKeywords = cloneStrings(r.BlockedKeywords)
	out.DisallowedIBANCountries = cloneStrings(r.DisallowedIBANCountries)
	out.RussianAccountPrefixes = cloneStrings(r.RussianAccountPrefixes)
	out.ForeignReviewCurrencies = cloneStrings(r.ForeignReviewCurrencies)
	out.MaxAmounts = cloneAmounts(r.MaxAmounts)
	out.MinAmounts = cloneAmounts(r.MinAmounts)
	if r.IBANLengths != nil {
		out.IBANLengths = make(map[string]int, len(r.IBANLengths))
		for k, v := range r.IBANLengths {
			out.IBANLengths[k] = v
		}
	}
	return out
}

// LoadRules reads a YAML rule file. Sections missing from the file keep their
// default values.
func LoadRules(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	var file RuleSet
	if err := yaml.Unmarshal(data, &file); err != nil {
		return RuleSet{}, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	return mergeWithDefaults(file), nil
}

// YAML renders the rule set in the format LoadRules reads.
func (r RuleSet) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}

func mergeWithDefaults(file RuleSet) RuleSet {
	rules := DefaultRules()
	if file.SupportedCurrencies != nil {
		rules.SupportedCurrencies = file.SupportedCurrencies
	}
	if file.MaxAmounts != nil {
		rules.MaxAmounts = file.MaxAmounts
	}
	if file.MinAmounts != nil {
		rules.MinAmounts = file.MinAmounts
	}
	if file.BlockedKeywords != nil {
		rules.BlockedKeywords = file.BlockedKeywords
	}
	if file.RecipientMinLength > 0 {
		rules.RecipientMinLength = file.RecipientMinLength
	}
	if file.RecipientMaxLength > 0 {
		rules.RecipientMaxLength = file.RecipientMaxLength
	}
	if file.IBANLengths != nil {
		rules.IBANLengths = file.IBANLengths
	}
	if file.DisallowedIBANCountries != nil {
		rules.DisallowedIBANCountries = file.DisallowedIBANCountries
	}
	if file.RussianAccountPrefixes != nil {
		rules.RussianAccountPrefixes = file.RussianAccountPrefixes
	}
	if file.DomesticCurrency != "" {
		rules.DomesticCurrency = file.DomesticCurrency
	}
	if !file.DomesticReviewThreshold.IsZero() {
		rules.DomesticReviewThreshold = file.DomesticReviewThreshold
	}
	if file.ForeignReviewCurrencies != nil {
		rules.ForeignReviewCurrencies = file.ForeignReviewCurrencies
	}
	if !file.ForeignReviewThreshold.IsZero() {
		rules.ForeignReviewThreshold = file.ForeignReviewThreshold
	}
	return rules
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneAmounts(in map[string]decimal.Decimal) map[string]decimal.Decimal {
	if in == nil {
		return nil
	}
	out := make(map[string]decimal.Decimal, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
