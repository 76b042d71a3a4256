package common

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/transfer-assistant/internal/fileutils"
	"fjacquet/transfer-assistant/internal/logging"
	"fjacquet/transfer-assistant/internal/parsererror"

	"github.com/gocarina/gocsv"
)

// TextColumns are the CSV column names that may hold transfer descriptions,
// in order of preference.
var TextColumns = []string{"description", "text", "transaction", "описание", "транзакция"}

// InputExtensions are the file types ReadTransactionTexts accepts.
var InputExtensions = []string{".txt", ".csv"}

// ReadTransactionTexts loads transfer descriptions from a .txt file (one per
// non-blank line) or a .csv file (one per non-blank cell of the first known
// text column). A directory is read file by file in lexical order.
func ReadTransactionTexts(path string, logger logging.Logger) ([]string, error) {
	logger = logging.OrDiscard(logger)

	if fileutils.DirectoryExists(path) {
		files, err := fileutils.ListFilesWithExtension(path, InputExtensions...)
		if err != nil {
			return nil, err
		}
		var texts []string
		for _, file := range files {
			more, err := readFile(file, logger)
			if err != nil {
				return nil, err
			}
			texts = append(texts, more...)
		}
		return texts, nil
	}
	return readFile(path, logger)
}

func readFile(path string, logger logging.Logger) ([]string, error) {
	var (
		texts []string
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		texts, err = readLines(path)
	case ".csv":
		texts, err = readCSVColumn(path)
	default:
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: ".txt or .csv",
			Msg:            "unsupported file extension",
		}
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Loaded transactions from file",
		logging.F(logging.FieldInputFile, path),
		logging.F(logging.FieldCount, len(texts)))
	return texts, nil
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var texts []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			texts = append(texts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return texts, nil
}

func readCSVColumn(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	rows, err := gocsv.CSVToMaps(file)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "CSV with a header row",
			Msg:            err.Error(),
		}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	column, ok := findTextColumn(rows[0])
	if !ok {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "a column named " + strings.Join(TextColumns, ", "),
			Msg:            "no transaction text column found",
		}
	}

	var texts []string
	for _, row := range rows {
		if text := strings.TrimSpace(row[column]); text != "" {
			texts = append(texts, text)
		}
	}
	return texts, nil
}

// findTextColumn returns the header key of the preferred text column.
// Header names are compared case-insensitively.
func findTextColumn(row map[string]string) (string, bool) {
	headers := make(map[string]string, len(row))
	for key := range row {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(key, "\ufeff")))
		headers[name] = key
	}
	for _, candidate := range TextColumns {
		if key, ok := headers[candidate]; ok {
			return key, true
		}
	}
	return "", false
}
