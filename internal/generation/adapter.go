// Package generation asks an external text generation service to structure a
// transfer request. Every failure is reported as a tagged Result so callers
// can fall back to pattern extraction.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/transfer-assistant/internal/logging"
	"fjacquet/transfer-assistant/internal/models"
	"fjacquet/transfer-assistant/internal/parser"
	"fjacquet/transfer-assistant/internal/parsererror"

	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a single generation call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Outcome tags the result of a generation attempt.
type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeDisabled      Outcome = "disabled"
	OutcomeUnavailable   Outcome = "unavailable"
	OutcomeTimeout       Outcome = "timeout"
	OutcomeRateLimited   Outcome = "rate_limited"
	OutcomeEmpty         Outcome = "empty"
	OutcomeMalformed     Outcome = "malformed"
	OutcomeMissingFields Outcome = "missing_fields"
)

// TextGenerator is a text generation service.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Result is the outcome of Adapter.Generate. Fields is only meaningful when
// Outcome is OutcomeOK.
type Result struct {
	Outcome Outcome
	Fields  models.RawFields
	Raw     string
	Err     error
}

// OK reports whether the generation produced usable fields.
func (r Result) OK() bool {
	return r.Outcome == OutcomeOK
}

// Options tune an Adapter.
type Options struct {
	// Timeout bounds each call; zero or negative means DefaultTimeout.
	Timeout time.Duration
	// RequestsPerMinute caps the call rate; zero disables limiting.
	RequestsPerMinute int
}

// Adapter wraps a TextGenerator with a timeout, a rate limiter and response
// decoding.
type Adapter struct {
	client   TextGenerator
	provider string
	timeout  time.Duration
	limiter  *rate.Limiter
	logger   logging.Logger
}

// NewAdapter creates an Adapter. A nil client yields an adapter that always
// reports OutcomeDisabled.
func NewAdapter(client TextGenerator, provider string, opts Options, logger logging.Logger) *Adapter {
	a := &Adapter{
		client:   client,
		provider: provider,
		timeout:  opts.Timeout,
		logger:   logging.OrDiscard(logger),
	}
	if a.timeout <= 0 {
		a.timeout = DefaultTimeout
	}
	if opts.RequestsPerMinute > 0 {
		a.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}
	return a
}

// Enabled reports whether the adapter has a client to call.
func (a *Adapter) Enabled() bool {
	return a != nil && a.client != nil
}

// Provider returns the configured provider name.
func (a *Adapter) Provider() string {
	if a == nil {
		return ""
	}
	return a.provider
}

// Generate asks the service to structure text. It never panics; a panic in
// the client is reported as OutcomeUnavailable.
func (a *Adapter) Generate(ctx context.Context, text string) (res Result) {
	if !a.Enabled() {
		return Result{Outcome: OutcomeDisabled}
	}

	defer func() {
		if r := recover(); r != nil {
			res = a.fail(OutcomeUnavailable, fmt.Errorf("panic: %v", r))
		}
		a.logger.Debug("Generation finished",
			logging.F(logging.FieldProvider, a.provider),
			logging.F(logging.FieldOutcome, string(res.Outcome)))
	}()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return a.fail(OutcomeRateLimited, err)
		}
	}

	raw, err := a.client.GenerateText(ctx, Prompt(text))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return a.fail(OutcomeTimeout, err)
		}
		return a.fail(OutcomeUnavailable, err)
	}

	if strings.TrimSpace(raw) == "" {
		return a.fail(OutcomeEmpty, nil)
	}

	fields, ok := parser.DecodeBlock(raw)
	if !ok {
		res = a.fail(OutcomeMalformed, errors.New("response is not a JSON object"))
		res.Raw = raw
		return res
	}

	if missing := fields.Missing(); len(missing) > 0 {
		res = a.fail(OutcomeMissingFields, fmt.Errorf("%w: %s", parsererror.ErrMissingField, strings.Join(missing, ", ")))
		res.Raw = raw
		return res
	}

	return Result{Outcome: OutcomeOK, Fields: fields, Raw: raw}
}

func (a *Adapter) fail(outcome Outcome, err error) Result {
	return Result{
		Outcome: outcome,
		Err: &parsererror.AdapterError{
			Provider: a.provider,
			Outcome:  string(outcome),
			Err:      err,
		},
	}
}
