// Package batch processes many transfer descriptions and aggregates the
// outcome.
package batch

import (
	"context"
	"fmt"
	"time"

	"fjacquet/transfer-assistant/internal/logging"
	"fjacquet/transfer-assistant/internal/processor"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// TransactionProcessor processes a single text.
type TransactionProcessor interface {
	ProcessTransaction(ctx context.Context, text string) processor.Result
}

// Report holds per-item results in input order and the batch statistics.
type Report struct {
	Results []processor.Result `json:"results"`
	Stats   Stats              `json:"statistics"`
}

// Orchestrator runs a TransactionProcessor over a list of texts.
type Orchestrator struct {
	logger    logging.Logger
	processor TransactionProcessor
	workers   int
}

// NewOrchestrator creates an Orchestrator. Workers below one mean sequential
// processing.
func NewOrchestrator(logger logging.Logger, p TransactionProcessor, workers int) *Orchestrator {
	if workers < 1 {
		workers = 1
	}
	return &Orchestrator{
		logger:    logging.OrDiscard(logger),
		processor: p,
		workers:   workers,
	}
}

// Workers returns the configured parallelism.
func (o *Orchestrator) Workers() int {
	return o.workers
}

// ProcessMany processes every text and returns results in input order. A
// failing item is reported in its own Result and does not affect the others.
// Statistics are computed once all items have finished.
func (o *Orchestrator) ProcessMany(ctx context.Context, texts []string) Report {
	start := time.Now()
	results := make([]processor.Result, len(texts))

	if o.workers == 1 || len(texts) < 2 {
		for i, text := range texts {
			results[i] = o.processOne(ctx, i, len(texts), text)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(o.workers)
		for i, text := range texts {
			g.Go(func() error {
				results[i] = o.processOne(ctx, i, len(texts), text)
				return nil
			})
		}
		_ = g.Wait()
	}

	stats := Aggregate(results)
	o.logger.Info("Batch processing completed",
		logging.F(logging.FieldCount, len(texts)),
		logging.F(logging.FieldWorkers, o.workers),
		logging.F("successful", stats.Successful),
		logging.F(logging.FieldValid, stats.Valid),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	return Report{Results: results, Stats: stats}
}

func (o *Orchestrator) processOne(ctx context.Context, index, total int, text string) (result processor.Result) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Batch item failed",
				logging.F(logging.FieldIndex, index+1),
				logging.F(logging.FieldError, fmt.Sprint(r)))
			result = processor.Result{
				ID:          uuid.NewString(),
				Text:        text,
				Method:      processor.MethodError,
				Error:       fmt.Sprintf("unexpected failure: %v", r),
				ProcessedAt: time.Now(),
			}
		}
	}()

	o.logger.Debug("Processing batch item",
		logging.F(logging.FieldIndex, index+1),
		logging.F(logging.FieldCount, total))
	return o.processor.ProcessTransaction(ctx, text)
}
