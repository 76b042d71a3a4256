// Package common provides the file input and output shared by the commands.
package common

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"fjacquet/transfer-assistant/internal/fileutils"
	"fjacquet/transfer-assistant/internal/logging"
	"fjacquet/transfer-assistant/internal/models"
	"fjacquet/transfer-assistant/internal/processor"

	"github.com/gocarina/gocsv"
)

// Delimiter is the separator used for CSV output.
var Delimiter rune = ','

// SetDelimiter sets the delimiter for CSV output.
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// ResultRow is the flat CSV form of a processing result.
type ResultRow struct {
	ID            string  `csv:"id"`
	Text          string  `csv:"text"`
	Method        string  `csv:"processing_method"`
	Amount        string  `csv:"amount"`
	Currency      string  `csv:"currency"`
	Recipient     string  `csv:"recipient"`
	AccountNumber string  `csv:"account_number"`
	AccountKind   string  `csv:"account_kind"`
	IBAN          string  `csv:"iban"`
	Description   string  `csv:"description"`
	IsValid       bool    `csv:"is_valid"`
	Errors        string  `csv:"errors"`
	Warnings      string  `csv:"warnings"`
	Error         string  `csv:"error"`
	DurationMS    float64 `csv:"duration_ms"`
}

// messageSeparator joins validation messages inside a single CSV cell.
const messageSeparator = "; "

// NewResultRow flattens a processing result.
func NewResultRow(r processor.Result) ResultRow {
	row := ResultRow{
		ID:          r.ID,
		Text:        r.Text,
		Method:      r.Method,
		AccountKind: r.AccountKind,
		Error:       r.Error,
		DurationMS:  r.DurationMS,
	}
	if r.Record != nil {
		row.Amount = r.Record.Amount.StringFixed(models.CurrencyPrecision(r.Record.Currency))
		row.Currency = r.Record.Currency
		row.Recipient = r.Record.Recipient
		row.AccountNumber = r.Record.Account()
		row.IBAN = r.Record.IBANValue()
		row.Description = r.Record.DescriptionValue()
	}
	if r.Verdict != nil {
		row.IsValid = r.Verdict.IsValid
		row.Errors = strings.Join(r.Verdict.Errors, messageSeparator)
		row.Warnings = strings.Join(r.Verdict.Warnings, messageSeparator)
	}
	return row
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
func ReadCSVFile[TCSVRow any](filePath string) ([]TCSVRow, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var rows []TCSVRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}
	return rows, nil
}

// WriteResultsCSV writes processing results to csvFile, creating its
// directory when needed.
func WriteResultsCSV(results []processor.Result, csvFile string, logger logging.Logger) error {
	logger = logging.OrDiscard(logger)
	if results == nil {
		return fmt.Errorf("cannot write nil results to CSV")
	}

	file, err := fileutils.CreateFile(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	rows := make([]ResultRow, len(results))
	for i, r := range results {
		rows[i] = NewResultRow(r)
	}

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	logger.Info("Wrote results to CSV file",
		logging.F(logging.FieldOutputFile, csvFile),
		logging.F(logging.FieldCount, len(rows)))
	return nil
}
