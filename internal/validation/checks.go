package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// Account kinds reported by CheckAccount.
const (
	AccountKindRussian       = "russian"
	AccountKindInternational = "international"
)

const (
	ibanMinLength        = 15
	ibanMaxLength        = 34
	accountMinDigits     = 10
	accountMaxDigits     = 25
	russianAccountDigits = 20
)

var ibanShape = regexp.MustCompile(`^[A-Z]{2}\d{2}[A-Z0-9]+$`)

var defaultRules = DefaultRules()

// AccountCheck describes the structural check of an account number. Kind is
// informational and never affects validity.
type AccountCheck struct {
	Valid      bool   `json:"valid"`
	Kind       string `json:"kind,omitempty"`
	Normalized string `json:"normalized,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// ValidIBAN runs the structural IBAN check with the default rule tables.
func ValidIBAN(iban string) bool {
	return defaultRules.ValidIBAN(iban)
}

// CheckAccount runs the structural account check with the default rule
// tables.
func CheckAccount(account string) AccountCheck {
	return defaultRules.CheckAccount(account)
}

// ValidIBAN reports whether iban is structurally plausible: after removing
// spaces and upper-casing it has 15 to 34 characters, two letters, two check
// digits and alphanumerics, the exact length for countries with a known
// length, and a country that is not disallowed.
func (r RuleSet) ValidIBAN(iban string) bool {
	iban = strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	if len(iban) < ibanMinLength || len(iban) > ibanMaxLength {
		return false
	}
	if !ibanShape.MatchString(iban) {
		return false
	}

	country := iban[:2]
	for _, c := range r.DisallowedIBANCountries {
		if strings.EqualFold(c, country) {
			return false
		}
	}
	if expected, ok := r.IBANLengths[country]; ok && expected > 0 && len(iban) != expected {
		return false
	}
	return true
}

// CheckAccount validates an account number after removing spaces and
// hyphens: it must be 10 to 25 digits. Twenty digit numbers starting with a
// Russian account prefix are reported as Kind "russian", every other valid
// number as "international".
func (r RuleSet) CheckAccount(account string) AccountCheck {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return r
	}, account)

	switch {
	case clean == "":
		return AccountCheck{Reason: "account number is empty"}
	case strings.IndexFunc(clean, func(r rune) bool { return r < '0' || r > '9' }) >= 0:
		return AccountCheck{Reason: "account number must contain only digits"}
	case len(clean) < accountMinDigits:
		return AccountCheck{Reason: "account number is too short"}
	case len(clean) > accountMaxDigits:
		return AccountCheck{Reason: "account number is too long"}
	}

	kind := AccountKindInternational
	if len(clean) == russianAccountDigits {
		for _, prefix := range r.RussianAccountPrefixes {
			if strings.HasPrefix(clean, prefix) {
				kind = AccountKindRussian
				break
			}
		}
	}
	return AccountCheck{Valid: true, Kind: kind, Normalized: clean}
}
