// Package common contains shared functionality for command handlers
package common

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"fjacquet/transfer-assistant/internal/batch"
	"fjacquet/transfer-assistant/internal/config"
	"fjacquet/transfer-assistant/internal/currencyutils"
	"fjacquet/transfer-assistant/internal/models"
	"fjacquet/transfer-assistant/internal/processor"
	"fjacquet/transfer-assistant/internal/security"
)

const none = "-"

// CheckText rejects blank input and input longer than the configured limit.
func CheckText(cfg *config.Config, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("transaction text is required")
	}
	if limit := cfg.Input.MaxTextLength; limit > 0 && utf8.RuneCountInString(text) > limit {
		return fmt.Errorf("transaction text exceeds %d characters", limit)
	}
	return nil
}

// Present masks sensitive fields of r when the configuration asks for it.
func Present(cfg *config.Config, r processor.Result) processor.Result {
	if cfg != nil && cfg.Security.MaskSensitiveData {
		return security.MaskResult(r)
	}
	return r
}

// PresentAll applies Present to every result.
func PresentAll(cfg *config.Config, results []processor.Result) []processor.Result {
	out := make([]processor.Result, len(results))
	for i, r := range results {
		out[i] = Present(cfg, r)
	}
	return out
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// PrintResult writes a human-readable view of one processing result.
func PrintResult(w io.Writer, r processor.Result) {
	if !r.Succeeded() {
		fmt.Fprintf(w, "Processing failed: %s\n", r.Error)
		return
	}

	tx := r.Record
	account := valueOr(tx.AccountNumber)
	if r.AccountKind != "" {
		account += " (" + r.AccountKind + ")"
	}

	fmt.Fprintln(w, "Transaction")
	fmt.Fprintf(w, "  Amount:      %s\n", currencyutils.FormatAmount(tx.Amount, tx.Currency))
	fmt.Fprintf(w, "  Currency:    %s\n", tx.Currency)
	fmt.Fprintf(w, "  Recipient:   %s\n", tx.Recipient)
	fmt.Fprintf(w, "  Account:     %s\n", account)
	fmt.Fprintf(w, "  IBAN:        %s\n", valueOr(tx.IBAN))
	fmt.Fprintf(w, "  Description: %s\n", valueOr(tx.Description))
	fmt.Fprintf(w, "  Method:      %s\n", r.Method)

	if r.Verdict.IsValid {
		fmt.Fprintln(w, "Validation:    valid")
	} else {
		fmt.Fprintln(w, "Validation:    invalid")
	}
	for _, e := range r.Verdict.Errors {
		fmt.Fprintf(w, "  error:   %s\n", e)
	}
	for _, warning := range r.Verdict.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
}

// PrintSummaryLine writes a one-line view of a batch item.
func PrintSummaryLine(w io.Writer, index int, r processor.Result) {
	if !r.Succeeded() {
		fmt.Fprintf(w, "%3d. [error]   %s\n", index, r.Error)
		return
	}
	status := "valid"
	if !r.Verdict.IsValid {
		status = "invalid"
	}
	fmt.Fprintf(w, "%3d. [%s] %s to %s (%s)\n", index, status,
		currencyutils.FormatAmount(r.Record.Amount, r.Record.Currency),
		r.Record.Recipient, r.Method)
}

// PrintStats writes batch statistics.
func PrintStats(w io.Writer, s batch.Stats) {
	fmt.Fprintln(w, "Statistics")
	fmt.Fprintf(w, "  Total:           %d\n", s.Total)
	fmt.Fprintf(w, "  Successful:      %d (%.2f%%)\n", s.Successful, s.SuccessRate)
	fmt.Fprintf(w, "  Failed:          %d\n", s.Failed)
	fmt.Fprintf(w, "  Valid:           %d (%.2f%%)\n", s.Valid, s.ValidationRate)
	fmt.Fprintf(w, "  Average time:    %.2f ms\n", s.AverageDurationMS)

	for _, code := range sortedKeys(s.AmountByCurrency) {
		fmt.Fprintf(w, "  %s:             %d transfers, %s\n", code, s.Currencies[code],
			currencyutils.FormatAmount(s.AmountByCurrency[code], code))
	}
	for _, method := range sortedKeys(s.Methods) {
		fmt.Fprintf(w, "  Method %s: %d\n", method, s.Methods[method])
	}

	if len(s.Validation.CommonErrors) > 0 {
		fmt.Fprintln(w, "Most common errors")
		for _, mc := range s.Validation.CommonErrors {
			fmt.Fprintf(w, "  %dx %s\n", mc.Count, mc.Message)
		}
	}
	if len(s.Validation.CommonWarnings) > 0 {
		fmt.Fprintln(w, "Most common warnings")
		for _, mc := range s.Validation.CommonWarnings {
			fmt.Fprintf(w, "  %dx %s\n", mc.Count, mc.Message)
		}
	}
}

func valueOr(s *string) string {
	if v := models.Deref(s); v != "" {
		return v
	}
	return none
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
