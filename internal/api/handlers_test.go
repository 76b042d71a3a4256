package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fjacquet/transfer-assistant/internal/batch"
	"fjacquet/transfer-assistant/internal/logging"
	"fjacquet/transfer-assistant/internal/processor"
	"fjacquet/transfer-assistant/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = "Перевести 2000₽ получателю Сидорова Анна Петровна счет 40817810555666777888"

type panicProcessor struct{}

func (panicProcessor) ProcessTransaction(context.Context, string) processor.Result {
	panic("boom")
}

func defaultOptions() Options {
	return Options{MaxTextLength: 10000, MaxBatchItems: 3, MaskSensitiveData: true}
}

func newTestRouter(repo store.Repository, opts Options) (http.Handler, *logging.MockLogger) {
	logger := logging.NewMockLogger()
	proc := processor.New(logger, nil, nil, nil)
	orch := batch.NewOrchestrator(logger, proc, 2)
	return NewRouter(logger, proc, orch, repo, opts), logger
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(nil, defaultOptions())

	rec := doRequest(t, h, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["store_enabled"])
	assert.Equal(t, false, body["generation_enabled"])
}

func TestProcessTransaction(t *testing.T) {
	h, logger := newTestRouter(nil, defaultOptions())

	rec := doRequest(t, h, http.MethodPost, "/api/v1/transactions/process", map[string]string{"text": sampleText})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[processor.Result](t, rec)
	assert.Equal(t, processor.MethodPattern, res.Method)
	require.NotNil(t, res.Record)
	assert.Equal(t, "RUB", res.Record.Currency)
	assert.Equal(t, "2000", res.Record.Amount.String())
	require.NotNil(t, res.Record.AccountNumber)
	assert.Equal(t, "4081************7888", *res.Record.AccountNumber)
	assert.NotContains(t, res.Text, "40817810555666777888")
	require.NotNil(t, res.Verdict)
	assert.True(t, res.Verdict.IsValid)

	assert.True(t, logger.HasEntry("INFO", "HTTP request"))
}

func TestProcessTransaction_Unmasked(t *testing.T) {
	opts := defaultOptions()
	opts.MaskSensitiveData = false
	h, _ := newTestRouter(nil, opts)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/transactions/process", map[string]string{"text": sampleText})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[processor.Result](t, rec)
	require.NotNil(t, res.Record.AccountNumber)
	assert.Equal(t, "40817810555666777888", *res.Record.AccountNumber)
}

func TestProcessTransaction_BadRequests(t *testing.T) {
	opts := defaultOptions()
	opts.MaxTextLength = 20
	h, _ := newTestRouter(nil, opts)

	tests := []struct {
		name    string
		body    any
		message string
	}{
		{"invalid json", "{", "invalid JSON body"},
		{"empty text", map[string]string{"text": "   "}, "text is required"},
		{"missing text", map[string]string{}, "text is required"},
		{"too long", map[string]string{"text": strings.Repeat("я", 21)}, "text exceeds 20 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/api/v1/transactions/process", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode[map[string]string](t, rec)["error"], tt.message)
		})
	}
}

func TestProcessTransaction_ExtractionFailureIsReported(t *testing.T) {
	h, _ := newTestRouter(nil, defaultOptions())

	rec := doRequest(t, h, http.MethodPost, "/api/v1/transactions/process", map[string]string{"text": "Send money to account"})
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[processor.Result](t, rec)
	assert.Equal(t, processor.MethodError, res.Method)
	assert.Nil(t, res.Record)
	assert.NotEmpty(t, res.Error)
}

func TestProcessBatch(t *testing.T) {
	h, _ := newTestRouter(nil, defaultOptions())

	texts := []string{sampleText, "Send money to account"}
	rec := doRequest(t, h, http.MethodPost, "/api/v1/transactions/batch", map[string]any{"texts": texts})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	report := decode[batch.Report](t, rec)
	require.Len(t, report.Results, 2)
	assert.NotContains(t, report.Results[0].Text, "40817810555666777888")
	assert.Equal(t, processor.MethodPattern, report.Results[0].Method)
	assert.Equal(t, processor.MethodError, report.Results[1].Method)
	assert.Equal(t, 2, report.Stats.Total)
	assert.Equal(t, 1, report.Stats.Successful)
	assert.Equal(t, 1, report.Stats.Failed)
	assert.Equal(t, 1, report.Stats.Currencies["RUB"])
}

func TestProcessBatch_BadRequests(t *testing.T) {
	h, _ := newTestRouter(nil, defaultOptions())

	tests := []struct {
		name    string
		body    any
		message string
	}{
		{"invalid json", "[", "invalid JSON body"},
		{"no texts", map[string]any{"texts": []string{}}, "texts are required"},
		{"too many", map[string]any{"texts": []string{"a 1", "b 2", "c 3", "d 4"}}, "batch exceeds 3 transactions"},
		{"blank item", map[string]any{"texts": []string{sampleText, ""}}, "texts[1]: text is required"},
		{"save without store", map[string]any{"texts": []string{sampleText}, "save": true}, "transaction store is not enabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/api/v1/transactions/batch", tt.body)
			assert.GreaterOrEqual(t, rec.Code, 400)
			assert.Contains(t, decode[map[string]string](t, rec)["error"], tt.message)
		})
	}
}

func TestListTransactions_WithoutStore(t *testing.T) {
	h, _ := newTestRouter(nil, defaultOptions())

	rec := doRequest(t, h, http.MethodGet, "/api/v1/transactions", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/transactions/abc", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/v1/transactions/process", map[string]any{"text": sampleText, "save": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStoredTransactions(t *testing.T) {
	repo := &store.MockResultStore{}
	h, _ := newTestRouter(repo, defaultOptions())

	rec := doRequest(t, h, http.MethodPost, "/api/v1/transactions/process", map[string]any{"text": sampleText, "save": true})
	require.Equal(t, http.StatusOK, rec.Code)
	saved := decode[map[string]any](t, rec)
	assert.Equal(t, true, saved["saved"])
	assert.Equal(t, 1, repo.Len())

	rec = doRequest(t, h, http.MethodPost, "/api/v1/transactions/batch",
		map[string]any{"texts": []string{sampleText, "Send money to account"}, "save": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, rec)["saved"])
	assert.Equal(t, 2, repo.Len())

	rec = doRequest(t, h, http.MethodGet, "/api/v1/transactions?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Transactions []store.StoredTransaction `json:"transactions"`
		Count        int                       `json:"count"`
		Limit        int                       `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, 1, list.Limit)
	require.Len(t, list.Transactions, 1)
	require.NotNil(t, list.Transactions[0].Record.AccountNumber)
	assert.Equal(t, "4081************7888", *list.Transactions[0].Record.AccountNumber)

	id := list.Transactions[0].Record.ID
	rec = doRequest(t, h, http.MethodGet, "/api/v1/transactions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[store.StoredTransaction](t, rec)
	assert.Equal(t, id, st.Record.ID)
	assert.NotContains(t, st.Text, "40817810555666777888")

	rec = doRequest(t, h, http.MethodGet, "/api/v1/transactions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStoredTransactions_StoreErrors(t *testing.T) {
	repo := &store.MockResultStore{
		SaveError: errors.New("disk full"),
		ListError: errors.New("disk gone"),
		GetError:  errors.New("disk gone"),
	}
	h, logger := newTestRouter(repo, defaultOptions())

	rec := doRequest(t, h, http.MethodPost, "/api/v1/transactions/process", map[string]any{"text": sampleText, "save": true})
	require.Equal(t, http.StatusOK, rec.Code)
	_, saved := decode[map[string]any](t, rec)["saved"]
	assert.False(t, saved)
	assert.True(t, logger.HasEntry("WARN", "Failed to save transaction"))

	rec = doRequest(t, h, http.MethodGet, "/api/v1/transactions", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/transactions/some-id", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, logger.HasEntry("ERROR", "HTTP request"))
}

func TestRecoverer(t *testing.T) {
	logger := logging.NewMockLogger()
	h := NewRouter(logger, panicProcessor{}, nil, nil, defaultOptions())

	rec := doRequest(t, h, http.MethodPost, "/api/v1/transactions/process", map[string]string{"text": sampleText})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, logger.HasEntry("ERROR", "HTTP request"))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 50, parseIntDefault("", 50))
	assert.Equal(t, 50, parseIntDefault("abc", 50))
	assert.Equal(t, 50, parseIntDefault("0", 50))
	assert.Equal(t, 7, parseIntDefault("7", 50))
}

func TestProcessTransaction_SaveWithoutStoreSkipsProcessing(t *testing.T) {
	h := NewRouter(logging.NewMockLogger(), panicProcessor{}, nil, nil, defaultOptions())

	rec := doRequest(t, h, http.MethodPost, "/api/v1/transactions/process", map[string]any{"text": sampleText, "save": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "transaction store is not enabled", decode[map[string]string](t, rec)["error"])
}
