// Package processor runs a single transfer description through generation or
// pattern extraction, record building and validation.
package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fjacquet/transfer-assistant/internal/generation"
	"fjacquet/transfer-assistant/internal/logging"
	"fjacquet/transfer-assistant/internal/models"
	"fjacquet/transfer-assistant/internal/parser"
	"fjacquet/transfer-assistant/internal/textutils"
	"fjacquet/transfer-assistant/internal/validation"

	"github.com/google/uuid"
)

// Processing methods reported in Result.Method.
const (
	MethodGenerated = "generated"
	MethodPattern   = "pattern"
	MethodError     = "error"
)

const logTextLimit = 100

// Generator structures text through an external service.
type Generator interface {
	Generate(ctx context.Context, text string) generation.Result
}

// RecordBuilder turns text or raw fields into a transaction record.
type RecordBuilder interface {
	Parse(text string) (models.Transaction, error)
	Build(fields models.RawFields) (models.Transaction, error)
}

// RuleChecker validates records and classifies account numbers.
type RuleChecker interface {
	Validate(tx models.Transaction) models.Verdict
	CheckAccount(account string) validation.AccountCheck
}

// Result is the outcome of processing one text. Record and Verdict are nil
// when Method is MethodError.
type Result struct {
	ID          string              `json:"id"`
	Text        string              `json:"text"`
	Record      *models.Transaction `json:"transaction"`
	Verdict     *models.Verdict     `json:"validation"`
	Error       string              `json:"error,omitempty"`
	Method      string              `json:"processing_method"`
	AccountKind string              `json:"account_kind,omitempty"`
	ProcessedAt time.Time           `json:"processed_at"`
	DurationMS  float64             `json:"duration_ms"`
}

// Succeeded reports whether a record was produced.
func (r Result) Succeeded() bool {
	return r.Record != nil
}

// Processor is safe for concurrent use when its collaborators are.
type Processor struct {
	logger    logging.Logger
	builder   RecordBuilder
	checker   RuleChecker
	generator Generator
	now       func() time.Time
}

// New creates a Processor. A nil builder or checker uses the defaults; a nil
// generator disables generation.
func New(logger logging.Logger, builder RecordBuilder, checker RuleChecker, generator Generator) *Processor {
	logger = logging.OrDiscard(logger)
	if builder == nil {
		builder = parser.New(logger, nil)
	}
	if checker == nil {
		checker = validation.NewValidator(validation.DefaultRules())
	}
	return &Processor{
		logger:    logger,
		builder:   builder,
		checker:   checker,
		generator: generator,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ProcessTransaction extracts, builds and validates one transfer. Failures are
// reported in the Result; it never returns an error or panics.
func (p *Processor) ProcessTransaction(ctx context.Context, text string) (result Result) {
	start := time.Now()
	result = Result{
		ID:          uuid.NewString(),
		Text:        text,
		ProcessedAt: p.now(),
	}
	log := p.logger.WithField(logging.FieldRecordID, result.ID)
	log.Info("Processing transaction", logging.F(logging.FieldText, textutils.Truncate(text, logTextLimit)))

	defer func() {
		if r := recover(); r != nil {
			result = p.failed(result, fmt.Errorf("unexpected failure: %v", r))
		}
		result.DurationMS = float64(time.Since(start).Microseconds()) / 1000
		if result.Method == MethodError {
			log.Error("Transaction processing failed",
				logging.F(logging.FieldError, result.Error),
				logging.F(logging.FieldDuration, result.DurationMS))
			return
		}
		log.Info("Transaction processed",
			logging.F(logging.FieldMethod, result.Method),
			logging.F(logging.FieldValid, result.Verdict.IsValid),
			logging.F(logging.FieldDuration, result.DurationMS))
	}()

	tx, method, err := p.record(ctx, log, text)
	if err != nil {
		return p.failed(result, err)
	}

	verdict := p.checker.Validate(tx)
	result.Record = &tx
	result.Verdict = &verdict
	result.Method = method
	if tx.HasAccount() {
		if check := p.checker.CheckAccount(tx.Account()); check.Valid {
			result.AccountKind = check.Kind
		}
	}
	return result
}

// record prefers generated fields and falls back to pattern extraction when
// generation is unavailable or its fields do not build.
func (p *Processor) record(ctx context.Context, log logging.Logger, text string) (models.Transaction, string, error) {
	if p.generator != nil {
		res := p.generator.Generate(ctx, text)
		switch {
		case res.OK():
			tx, err := p.builder.Build(res.Fields)
			if err == nil {
				return tx, MethodGenerated, nil
			}
			log.WithError(err).Warn("Generated fields rejected, falling back to patterns")
		case res.Outcome != generation.OutcomeDisabled:
			log.WithError(res.Err).Warn("Generation failed, falling back to patterns",
				logging.F(logging.FieldOutcome, string(res.Outcome)))
		}
	}

	tx, err := p.builder.Parse(text)
	if err != nil {
		return models.Transaction{}, MethodError, err
	}
	return tx, MethodPattern, nil
}

func (p *Processor) failed(result Result, err error) Result {
	if err == nil {
		err = errors.New("unknown error")
	}
	result.Record = nil
	result.Verdict = nil
	result.AccountKind = ""
	result.Method = MethodError
	result.Error = err.Error()
	return result
}
