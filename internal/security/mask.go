// Package security masks and encrypts the sensitive parts of transfer
// records.
package security

import (
	"strings"
	"unicode/utf8"

	"fjacquet/transfer-assistant/internal/models"
	"fjacquet/transfer-assistant/internal/processor"
)

// Kinds of sensitive data understood by Mask.
const (
	KindAccount = "account"
	KindIBAN    = "iban"
	KindEmail   = "email"
)

const (
	maskChar    = "*"
	visibleHead = 4
	visibleTail = 4
)

// Mask hides the middle of sensitive data. Accounts and IBANs keep their
// first and last four characters; values of eight characters or fewer are
// masked entirely. Emails keep the first letter of the user name and the
// domain. Unknown kinds are returned unchanged.
func Mask(data, kind string) string {
	if data == "" {
		return data
	}

	switch kind {
	case KindAccount, KindIBAN:
		runes := []rune(data)
		if len(runes) <= visibleHead+visibleTail {
			return strings.Repeat(maskChar, len(runes))
		}
		return string(runes[:visibleHead]) +
			strings.Repeat(maskChar, len(runes)-visibleHead-visibleTail) +
			string(runes[len(runes)-visibleTail:])
	case KindEmail:
		user, domain, ok := strings.Cut(data, "@")
		if !ok || strings.Contains(domain, "@") {
			return data
		}
		if n := utf8.RuneCountInString(user); n > 1 {
			first, _ := utf8.DecodeRuneInString(user)
			user = string(first) + strings.Repeat(maskChar, n-1)
		}
		return user + "@" + domain
	default:
		return data
	}
}

// MaskRecord returns a copy of tx with the account number and IBAN masked.
func MaskRecord(tx models.Transaction) models.Transaction {
	return tx.WithSensitive(func(s string) string {
		return Mask(s, KindAccount)
	})
}

// MaskResult masks the record of r and every occurrence of its account
// number or IBAN in the original text and the validation messages. The
// original r is not modified.
func MaskResult(r processor.Result) processor.Result {
	if r.Record == nil {
		return r
	}

	var replacements []string
	for _, value := range []string{r.Record.Account(), r.Record.IBANValue()} {
		if value != "" {
			replacements = append(replacements, value, Mask(value, KindAccount))
		}
	}

	masked := MaskRecord(*r.Record)
	r.Record = &masked

	if len(replacements) == 0 {
		return r
	}
	replacer := strings.NewReplacer(replacements...)
	r.Text = replacer.Replace(r.Text)
	if r.Verdict != nil {
		v := models.NewVerdict(
			replaceAll(replacer, r.Verdict.Errors),
			replaceAll(replacer, r.Verdict.Warnings),
		)
		r.Verdict = &v
	}
	return r
}

func replaceAll(r *strings.Replacer, messages []string) []string {
	out := make([]string, len(messages))
	for i, m := range messages {
		out[i] = r.Replace(m)
	}
	return out
}
