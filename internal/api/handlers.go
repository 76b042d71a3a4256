package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"fjacquet/transfer-assistant/internal/batch"
	"fjacquet/transfer-assistant/internal/logging"
	"fjacquet/transfer-assistant/internal/processor"
	"fjacquet/transfer-assistant/internal/security"
	"fjacquet/transfer-assistant/internal/store"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 4 << 20

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	logger    logging.Logger
	processor TransactionProcessor
	batch     BatchProcessor
	repo      store.Repository
	opts      Options
}

type processRequest struct {
	Text string `json:"text"`
	Save bool   `json:"save"`
}

type processResponse struct {
	processor.Result
	Saved bool `json:"saved,omitempty"`
}

type batchRequest struct {
	Texts []string `json:"texts"`
	Save  bool     `json:"save"`
}

type batchResponse struct {
	batch.Report
	Saved int `json:"saved,omitempty"`
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// checkText returns a client error message for unusable input, or "".
func (h *Handlers) checkText(text string) string {
	if strings.TrimSpace(text) == "" {
		return "text is required"
	}
	if h.opts.MaxTextLength > 0 && utf8.RuneCountInString(text) > h.opts.MaxTextLength {
		return fmt.Sprintf("text exceeds %d characters", h.opts.MaxTextLength)
	}
	return ""
}

func (h *Handlers) present(r processor.Result) processor.Result {
	if h.opts.MaskSensitiveData {
		return security.MaskResult(r)
	}
	return r
}

func (h *Handlers) presentStored(st store.StoredTransaction) store.StoredTransaction {
	if !h.opts.MaskSensitiveData {
		return st
	}
	masked := security.MaskResult(processor.Result{Text: st.Text, Record: &st.Record, Verdict: &st.Verdict})
	st.Text = masked.Text
	st.Record = *masked.Record
	st.Verdict = *masked.Verdict
	return st
}

func (h *Handlers) save(r *http.Request, res processor.Result) bool {
	if h.repo == nil || !res.Succeeded() {
		return false
	}
	if err := h.repo.Save(r.Context(), res); err != nil {
		h.logger.WithError(err).Warn("Failed to save transaction",
			logging.F(logging.FieldRecordID, res.Record.ID))
		return false
	}
	return true
}

// --- Health ---

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "healthy",
		"generation_enabled": h.opts.GenerationEnabled,
		"store_enabled":      h.repo != nil,
		"time":               time.Now().UTC().Format(time.RFC3339),
	})
}

// --- ProcessTransaction ---

func (h *Handlers) ProcessTransaction(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := h.checkText(req.Text); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if req.Save && h.repo == nil {
		writeError(w, http.StatusNotFound, "transaction store is not enabled")
		return
	}

	res := h.processor.ProcessTransaction(r.Context(), req.Text)

	resp := processResponse{}
	if req.Save {
		resp.Saved = h.save(r, res)
	}
	resp.Result = h.present(res)
	writeJSON(w, http.StatusOK, resp)
}

// --- ProcessBatch ---

func (h *Handlers) ProcessBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Texts) == 0 {
		writeError(w, http.StatusBadRequest, "texts are required")
		return
	}
	if h.opts.MaxBatchItems > 0 && len(req.Texts) > h.opts.MaxBatchItems {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("batch exceeds %d transactions", h.opts.MaxBatchItems))
		return
	}
	for i, text := range req.Texts {
		if msg := h.checkText(text); msg != "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("texts[%d]: %s", i, msg))
			return
		}
	}
	if req.Save && h.repo == nil {
		writeError(w, http.StatusNotFound, "transaction store is not enabled")
		return
	}

	report := h.batch.ProcessMany(r.Context(), req.Texts)

	resp := batchResponse{Report: report}
	resp.Results = make([]processor.Result, len(report.Results))
	for i, res := range report.Results {
		if req.Save && h.save(r, res) {
			resp.Saved++
		}
		resp.Results[i] = h.present(res)
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- ListTransactions ---

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusNotFound, "transaction store is not enabled")
		return
	}

	limit := parseIntDefault(r.URL.Query().Get("limit"), store.DefaultListLimit)
	items, err := h.repo.List(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list transactions")
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	out := make([]store.StoredTransaction, len(items))
	for i, st := range items {
		out[i] = h.presentStored(st)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": out,
		"count":        len(out),
		"limit":        limit,
	})
}

// --- GetTransaction ---

func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusNotFound, "transaction store is not enabled")
		return
	}

	id := chi.URLParam(r, "id")
	st, err := h.repo.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load transaction", logging.F(logging.FieldRecordID, id))
		writeError(w, http.StatusInternalServerError, "failed to load transaction")
		return
	}
	writeJSON(w, http.StatusOK, h.presentStored(st))
}
