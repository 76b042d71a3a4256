package generation

import "strings"

const promptTemplate = `You extract bank transfer details from a user request.

Request:
{{text}}

Return ONLY a strict JSON object with exactly these keys:
- "amount": number, the transfer amount without currency symbols
- "currency": string, ISO 4217 code such as "RUB", "USD" or "EUR"
- "recipient": string, the name of the person or company receiving the money
- "account_number": string or null
- "iban": string or null
- "description": string or null, the purpose of the payment

Use null for anything that is not present in the request.
Do NOT wrap the response in code fences and do NOT add any other text.`

// Prompt renders the extraction instruction for text.
func Prompt(text string) string {
	return strings.Replace(promptTemplate, "{{text}}", text, 1)
}
