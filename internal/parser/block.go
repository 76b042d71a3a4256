package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"fjacquet/transfer-assistant/internal/models"
)

// DecodeBlock looks for an embedded JSON object (first '{' to last '}') in
// text, after removing Markdown code fences, and maps its keys onto raw
// fields. It reports false when there is no block or the block is not a JSON
// object. JSON null counts as absent; numbers are kept in their literal form.
func DecodeBlock(text string) (models.RawFields, bool) {
	block, ok := findBlock(stripCodeFences(text))
	if !ok {
		return models.RawFields{}, false
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(block)))
	dec.UseNumber()
	var data map[string]interface{}
	if err := dec.Decode(&data); err != nil || data == nil {
		return models.RawFields{}, false
	}

	return models.RawFields{
		Amount:        lookup(data, "amount"),
		Currency:      lookup(data, "currency"),
		Recipient:     lookup(data, "recipient"),
		AccountNumber: lookup(data, "account_number", "account"),
		IBAN:          lookup(data, "iban"),
		Description:   lookup(data, "description"),
	}, true
}

func findBlock(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// stripCodeFences removes ```json ... ``` wrappers that text generation
// services put around JSON answers.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return s
		}
		s = strings.TrimSpace(s[idx+1:])
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func lookup(data map[string]interface{}, keys ...string) *string {
	for _, key := range keys {
		raw, ok := data[key]
		if !ok || raw == nil {
			continue
		}
		var v string
		switch value := raw.(type) {
		case string:
			v = value
		case json.Number:
			v = value.String()
		case bool:
			continue
		default:
			v = fmt.Sprint(value)
		}
		return &v
	}
	return nil
}
