package batch

import (
	"sort"

	"fjacquet/transfer-assistant/internal/models"
	"fjacquet/transfer-assistant/internal/processor"

	"github.com/shopspring/decimal"
)

// commonMessageLimit is the number of most frequent messages kept in a
// validation summary.
const commonMessageLimit = 5

// MessageCount is a validation message and how often it occurred.
type MessageCount struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// ValidationSummary condenses the verdicts of a batch.
type ValidationSummary struct {
	Total          int            `json:"total"`
	Valid          int            `json:"valid"`
	Invalid        int            `json:"invalid"`
	TotalErrors    int            `json:"total_errors"`
	TotalWarnings  int            `json:"total_warnings"`
	CommonErrors   []MessageCount `json:"common_errors"`
	CommonWarnings []MessageCount `json:"common_warnings"`
}

// Stats are the aggregate figures of a processed batch. Rates are percentages
// rounded to two decimals.
type Stats struct {
	Total             int                        `json:"total"`
	Successful        int                        `json:"successful"`
	Failed            int                        `json:"failed"`
	Valid             int                        `json:"valid"`
	SuccessRate       float64                    `json:"success_rate"`
	ValidationRate    float64                    `json:"validation_rate"`
	Currencies        map[string]int             `json:"currencies"`
	AmountByCurrency  map[string]decimal.Decimal `json:"total_amount_by_currency"`
	Methods           map[string]int             `json:"methods"`
	AverageDurationMS float64                    `json:"average_processing_time_ms"`
	Validation        ValidationSummary          `json:"validation_summary"`
}

// Aggregate computes batch statistics from completed results.
func Aggregate(results []processor.Result) Stats {
	stats := Stats{
		Total:            len(results),
		Currencies:       make(map[string]int),
		AmountByCurrency: make(map[string]decimal.Decimal),
		Methods:          make(map[string]int),
	}

	var verdicts []models.Verdict
	totalDuration := decimal.Zero
	for _, r := range results {
		stats.Methods[r.Method]++
		totalDuration = totalDuration.Add(decimal.NewFromFloat(r.DurationMS))

		if r.Record != nil {
			stats.Successful++
			currency := r.Record.Currency
			stats.Currencies[currency]++
			total := models.NewMoney(stats.AmountByCurrency[currency], currency)
			if sum, err := total.Add(r.Record.Money()); err == nil {
				stats.AmountByCurrency[currency] = sum.Amount
			}
		}
		if r.Verdict != nil {
			verdicts = append(verdicts, *r.Verdict)
			if r.Verdict.IsValid {
				stats.Valid++
			}
		}
	}
	stats.Failed = stats.Total - stats.Successful

	if stats.Total > 0 {
		stats.SuccessRate = percent(stats.Successful, stats.Total)
		stats.ValidationRate = percent(stats.Valid, stats.Total)
		stats.AverageDurationMS = totalDuration.Div(decimal.NewFromInt(int64(stats.Total))).Round(2).InexactFloat64()
	}
	stats.Validation = Summarize(verdicts)
	return stats
}

// Summarize counts valid and invalid verdicts and the most common messages.
// Ties keep the order in which messages first appeared.
func Summarize(verdicts []models.Verdict) ValidationSummary {
	summary := ValidationSummary{Total: len(verdicts)}

	var errs, warnings []string
	for _, v := range verdicts {
		if v.IsValid {
			summary.Valid++
		}
		errs = append(errs, v.Errors...)
		warnings = append(warnings, v.Warnings...)
	}
	summary.Invalid = summary.Total - summary.Valid
	summary.TotalErrors = len(errs)
	summary.TotalWarnings = len(warnings)
	summary.CommonErrors = mostCommon(errs, commonMessageLimit)
	summary.CommonWarnings = mostCommon(warnings, commonMessageLimit)
	return summary
}

func mostCommon(messages []string, limit int) []MessageCount {
	counts := make(map[string]int)
	var order []string
	for _, m := range messages {
		if counts[m] == 0 {
			order = append(order, m)
		}
		counts[m]++
	}

	out := make([]MessageCount, 0, len(order))
	for _, m := range order {
		out = append(out, MessageCount{Message: m, Count: counts[m]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func percent(part, total int) float64 {
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2).
		InexactFloat64()
}
