package logging

// Field names shared by every component so that log lines can be filtered
// the same way regardless of which stage emitted them.
const (
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldIndex      = "index"
	FieldText       = "text"
	FieldTextLength = "text_length"
	FieldMethod     = "method"
	FieldCurrency   = "currency"
	FieldOutcome    = "outcome"
	FieldProvider   = "provider"
	FieldValid      = "valid"
	FieldErrors     = "errors"
	FieldWarnings   = "warnings"
	FieldRecordID   = "record_id"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldWorkers    = "workers"
	FieldRemoteAddr = "remote_addr"
	FieldHTTPMethod = "http_method"
	FieldHTTPPath   = "http_path"
	FieldHTTPStatus = "http_status"
)
