package parsererror

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAmount is matched by an ExtractionError for the amount field.
	ErrNoAmount = errors.New("no amount found")
	// ErrMissingField marks a mandatory field absent from the raw fields.
	ErrMissingField = errors.New("missing mandatory field")
)

// ExtractionError represents text from which a mandatory field could not be
// located at all.
type ExtractionError struct {
	Field   string
	Snippet string // Optional: leading part of the text for debugging
	Reason  string
}

func (e *ExtractionError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("could not extract %s: %s. Text: '%s'", e.Field, e.Reason, e.Snippet)
	}
	return fmt.Sprintf("could not extract %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrNoAmount) match amount extraction failures.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrNoAmount && e.Field == "amount"
}

// MalformedRecordError represents raw fields that cannot be turned into a
// transaction record.
type MalformedRecordError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	msg := fmt.Sprintf("malformed record: %s='%s': %s", e.Field, e.Value, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// AdapterError represents a failed call to a text generation provider. It never
// leaves the generation package as a returned error.
type AdapterError struct {
	Provider string
	Outcome  string
	Err      error
}

func (e *AdapterError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s adapter: %s", e.Provider, e.Outcome)
	}
	return fmt.Sprintf("%s adapter: %s: %v", e.Provider, e.Outcome, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an input file that does not conform to the
// expected layout.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}
