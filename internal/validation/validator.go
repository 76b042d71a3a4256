// Package validation applies business and compliance rules to transaction
// records.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fjacquet/transfer-assistant/internal/models"

	"golang.org/x/text/cases"
)

// Validator checks records against a fixed RuleSet. It holds no mutable state
// and is safe for concurrent use.
type Validator struct {
	rules     RuleSet
	supported map[string]bool
	blocked   []string
	foreign   map[string]bool
}

// NewValidator creates a Validator from a copy of rules.
func NewValidator(rules RuleSet) *Validator {
	rules = rules.Clone()
	fold := cases.Fold()

	v := &Validator{
		rules:     rules,
		supported: make(map[string]bool, len(rules.SupportedCurrencies)),
		foreign:   make(map[string]bool, len(rules.ForeignReviewCurrencies)),
	}
	for _, c := range rules.SupportedCurrencies {
		v.supported[strings.ToUpper(c)] = true
	}
	for _, c := range rules.ForeignReviewCurrencies {
		v.foreign[strings.ToUpper(c)] = true
	}
	for _, keyword := range rules.BlockedKeywords {
		if keyword = strings.TrimSpace(keyword); keyword != "" {
			v.blocked = append(v.blocked, fold.String(keyword))
		}
	}
	return v
}

// Rules returns a copy of the rule set in use.
func (v *Validator) Rules() RuleSet {
	return v.rules.Clone()
}

// Validate runs every rule in order and collects errors and warnings. The
// result depends only on tx and the rule set.
func (v *Validator) Validate(tx models.Transaction) models.Verdict {
	var errs, warnings []string
	currency := strings.ToUpper(tx.Currency)
	amount := tx.Amount

	if !v.supported[currency] {
		warnings = append(warnings, fmt.Sprintf("currency %s is not in the list of supported currencies", currency))
	}

	money := models.NewMoney(amount, currency)
	if limit, ok := v.rules.MaxAmounts[currency]; ok {
		if cmp, err := money.Compare(models.NewMoney(limit, currency)); err == nil && cmp > 0 {
			errs = append(errs, fmt.Sprintf("amount %s %s exceeds limit %s %s", amount, currency, limit, currency))
		}
	}
	if minimum, ok := v.rules.MinAmounts[currency]; ok {
		if cmp, err := money.Compare(models.NewMoney(minimum, currency)); err == nil && cmp < 0 {
			errs = append(errs, fmt.Sprintf("amount %s %s is below minimum %s %s", amount, currency, minimum, currency))
		}
	}

	if v.isBlocked(tx.Recipient) {
		errs = append(errs, fmt.Sprintf("recipient '%s' contains blocked keywords", tx.Recipient))
	}

	switch n := utf8.RuneCountInString(tx.Recipient); {
	case n < v.rules.RecipientMinLength:
		errs = append(errs, "recipient name is too short")
	case n > v.rules.RecipientMaxLength:
		warnings = append(warnings, "recipient name is very long")
	}

	if tx.HasIBAN() && !v.rules.ValidIBAN(tx.IBANValue()) {
		warnings = append(warnings, fmt.Sprintf("IBAN %s may be invalid", tx.IBANValue()))
	}

	if tx.HasAccount() && !v.rules.CheckAccount(tx.Account()).Valid {
		warnings = append(warnings, fmt.Sprintf("account number %s may be invalid", tx.Account()))
	}

	switch {
	case currency == strings.ToUpper(v.rules.DomesticCurrency) && amount.GreaterThan(v.rules.DomesticReviewThreshold):
		warnings = append(warnings, "large transfer amount, additional review may be required")
	case v.foreign[currency] && amount.GreaterThan(v.rules.ForeignReviewThreshold):
		warnings = append(warnings, "large foreign currency transfer, additional review may be required")
	}

	return models.NewVerdict(errs, warnings)
}

// CheckAccount runs the account check with this validator's rules.
func (v *Validator) CheckAccount(account string) AccountCheck {
	return v.rules.CheckAccount(account)
}

// isBlocked reports whether the case-folded recipient contains a blocked
// keyword. Matching stops at the first hit.
func (v *Validator) isBlocked(recipient string) bool {
	folded := cases.Fold().String(recipient)
	for _, keyword := range v.blocked {
		if strings.Contains(folded, keyword) {
			return true
		}
	}
	return false
}
