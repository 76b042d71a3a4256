package extractor

import "regexp"

// numberToken matches an amount: dot grouped thousands with a comma fraction
// or at least two groups ("1.234,56", "1.000.000"), space or comma grouped
// thousands ("15 000", "1,234.56") or a plain number with an optional
// fraction. A single dot group such as "1.500" stays a decimal fraction.
const numberToken = `\d{1,3}(?:\.\d{3})+,\d+|\d{1,3}(?:\.\d{3}){2,}|` +
	`\d{1,3}(?:[ \x{00A0},]\d{3})+(?:[.,]\d+)?|\d+(?:[.,]\d+)?`

// CurrencyCue tags an amount with a currency when one of its markers follows
// or precedes the number.
type CurrencyCue struct {
	Currency string
	pattern  *regexp.Regexp
}

func newCue(currency, suffix, prefix string) CurrencyCue {
	return CurrencyCue{
		Currency: currency,
		pattern: regexp.MustCompile(
			`(?i)(?:^|[^\d.,])(` + numberToken + `)\s*(?:` + suffix + `)` +
				`|(?:` + prefix + `)\s*(` + numberToken + `)`),
	}
}

// currencyCues are tried in this order and the first cue found anywhere in
// the text wins. Position in the text does not matter: "100 USD and 50 руб"
// resolves to RUB.
var currencyCues = []CurrencyCue{
	newCue("RUB", `₽|рубл|руб|RUB`, `₽|RUB`),
	newCue("USD", `\$|доллар|USD`, `\$|USD`),
	newCue("EUR", `€|евро|EUR`, `€|EUR`),
}

// CuePriority returns the currencies in the order their cues are tried.
func CuePriority() []string {
	out := make([]string, len(currencyCues))
	for i, c := range currencyCues {
		out[i] = c.Currency
	}
	return out
}

// find returns the number tagged by this cue, or "" when the cue is absent.
func (c CurrencyCue) find(text string) string {
	m := c.pattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

var (
	bareNumber = regexp.MustCompile(`(` + numberToken + `)`)

	recipientMarker = regexp.MustCompile(
		`(?i)(?:^|[^\p{L}])(?:получател[ьюя]|кому|на имя|recipient|to|для)[:\s]+`)

	accountPattern = regexp.MustCompile(
		`(?i)(?:^|[^\p{L}])(?:сч[её]т(?:а|у)?|account(?:\s+number)?)[:\s№#]*(\d{10,20})(?:\D|$)`)

	ibanPattern = regexp.MustCompile(
		`(?i)(?:^|[^\p{L}])iban[:\s]*([a-z]{2}\d{2}[a-z0-9]{4,30})`)

	// descriptionMarkers are tried in order; "для" doubles as a recipient
	// marker and only applies when no explicit description marker exists.
	descriptionMarkers = []*regexp.Regexp{
		regexp.MustCompile(
			`(?i)(?:^|[^\p{L}])(?:назначени[ея](?:\s+платежа)?|описани[еяюм]+|комментари[йяюем]+|цель|purpose)[:\s]+([^,\n]+)`),
		regexp.MustCompile(`(?i)(?:^|[^\p{L}])для[:\s]+([^,\n]+)`),
	}

	nameWord = regexp.MustCompile(`^["'«“„]?\p{L}[\p{L}\p{M}.'’"»”-]*`)
)

// recipientStopWords end a recipient name; they introduce the next field.
var recipientStopWords = map[string]bool{
	"на": true, "в": true, "по": true, "с": true, "со": true, "от": true,
	"для": true, "за": true, "номер": true, "инн": true, "бик": true,
	"счет": true, "счёт": true, "счета": true, "счету": true,
	"назначение": true, "описание": true, "описанием": true,
	"комментарий": true, "цель": true, "сумма": true, "сумму": true,
	"iban": true, "account": true, "acc": true, "for": true, "from": true,
	"with": true, "purpose": true,
}

// recipientLeadWords are skipped when they directly follow a marker, as in
// "to recipient Maria Garcia".
var recipientLeadWords = map[string]bool{
	"получатель": true, "получателю": true, "получателя": true,
	"recipient": true,
}
