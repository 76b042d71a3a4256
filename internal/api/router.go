// Package api exposes transfer processing over HTTP.
package api

import (
	"context"
	"net/http"

	"fjacquet/transfer-assistant/internal/batch"
	"fjacquet/transfer-assistant/internal/logging"
	"fjacquet/transfer-assistant/internal/processor"
	"fjacquet/transfer-assistant/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// TransactionProcessor processes a single text.
type TransactionProcessor interface {
	ProcessTransaction(ctx context.Context, text string) processor.Result
}

// BatchProcessor processes a list of texts.
type BatchProcessor interface {
	ProcessMany(ctx context.Context, texts []string) batch.Report
}

// Options controls request limits and response masking.
type Options struct {
	MaxTextLength     int
	MaxBatchItems     int
	MaskSensitiveData bool
	GenerationEnabled bool
}

// NewRouter creates the Chi router with all API routes mounted. repo may be
// nil, in which case the listing endpoints answer 404.
func NewRouter(
	logger logging.Logger,
	proc TransactionProcessor,
	orch BatchProcessor,
	repo store.Repository,
	opts Options,
) http.Handler {
	h := &Handlers{
		logger:    logging.OrDiscard(logger),
		processor: proc,
		batch:     orch,
		repo:      repo,
		opts:      opts,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Processing.
		r.Post("/transactions/process", h.ProcessTransaction)
		r.Post("/transactions/batch", h.ProcessBatch)

		// Stored results.
		r.Get("/transactions", h.ListTransactions)
		r.Get("/transactions/{id}", h.GetTransaction)
	})

	return r
}
