package generation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fjacquet/transfer-assistant/internal/logging"
	"fjacquet/transfer-assistant/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	block   bool
	panics  bool
	prompts []string
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.panics {
		panic("boom")
	}
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func TestAdapter_Generate(t *testing.T) {
	tests := []struct {
		name    string
		gen     *fakeGenerator
		outcome Outcome
	}{
		{
			name:    "complete object",
			gen:     &fakeGenerator{reply: `{"amount": 15000, "currency": "RUB", "recipient": "Иван Петров", "account_number": null, "iban": null, "description": "за услуги"}`},
			outcome: OutcomeOK,
		},
		{
			name:    "fenced object",
			gen:     &fakeGenerator{reply: "```json\n{\"amount\": \"100\", \"currency\": \"USD\", \"recipient\": \"John Smith\"}\n```"},
			outcome: OutcomeOK,
		},
		{
			name:    "client error",
			gen:     &fakeGenerator{err: errors.New("connection refused")},
			outcome: OutcomeUnavailable,
		},
		{
			name:    "blank answer",
			gen:     &fakeGenerator{reply: "  \n"},
			outcome: OutcomeEmpty,
		},
		{
			name:    "prose answer",
			gen:     &fakeGenerator{reply: "I cannot help with that."},
			outcome: OutcomeMalformed,
		},
		{
			name:    "missing recipient",
			gen:     &fakeGenerator{reply: `{"amount": 100, "currency": "USD", "recipient": null}`},
			outcome: OutcomeMissingFields,
		},
		{
			name:    "client panic",
			gen:     &fakeGenerator{panics: true},
			outcome: OutcomeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAdapter(tt.gen, ProviderGemini, Options{Timeout: time.Second}, logging.NewMockLogger())

			res := a.Generate(context.Background(), "Переведи 15000 рублей Ивану Петрову")

			assert.Equal(t, tt.outcome, res.Outcome)
			if tt.outcome == OutcomeOK {
				assert.True(t, res.OK())
				assert.NoError(t, res.Err)
				return
			}
			assert.False(t, res.OK())
			var adapterErr *parsererror.AdapterError
			require.ErrorAs(t, res.Err, &adapterErr)
			assert.Equal(t, ProviderGemini, adapterErr.Provider)
			assert.Equal(t, string(tt.outcome), adapterErr.Outcome)
		})
	}
}

func TestAdapter_GenerateFields(t *testing.T) {
	gen := &fakeGenerator{reply: `{"amount": 15000.50, "currency": "RUB", "recipient": "Иван Петров", "account_number": "40817810123456789012", "iban": null, "description": null}`}
	a := NewAdapter(gen, ProviderGemini, Options{}, nil)

	res := a.Generate(context.Background(), "text")
	require.True(t, res.OK())

	require.NotNil(t, res.Fields.Amount)
	assert.Equal(t, "15000.50", *res.Fields.Amount)
	assert.Equal(t, "Иван Петров", *res.Fields.Recipient)
	assert.Equal(t, "40817810123456789012", *res.Fields.AccountNumber)
	assert.Nil(t, res.Fields.IBAN)
	assert.Nil(t, res.Fields.Description)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "text")
	assert.Contains(t, gen.prompts[0], `"account_number"`)
}

func TestAdapter_MissingFieldsWrapsSentinel(t *testing.T) {
	a := NewAdapter(&fakeGenerator{reply: `{"amount": 100}`}, ProviderGenAI, Options{}, nil)

	res := a.Generate(context.Background(), "text")
	assert.Equal(t, OutcomeMissingFields, res.Outcome)
	assert.ErrorIs(t, res.Err, parsererror.ErrMissingField)
	assert.Contains(t, res.Err.Error(), "currency, recipient")
}

func TestAdapter_Timeout(t *testing.T) {
	a := NewAdapter(&fakeGenerator{block: true}, ProviderGemini, Options{Timeout: 20 * time.Millisecond}, nil)

	start := time.Now()
	res := a.Generate(context.Background(), "text")

	assert.Equal(t, OutcomeTimeout, res.Outcome)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestAdapter_RateLimited(t *testing.T) {
	gen := &fakeGenerator{reply: `{"amount": 1, "currency": "USD", "recipient": "John"}`}
	a := NewAdapter(gen, ProviderGemini, Options{Timeout: 50 * time.Millisecond, RequestsPerMinute: 1}, nil)

	first := a.Generate(context.Background(), "text")
	second := a.Generate(context.Background(), "text")

	assert.Equal(t, OutcomeOK, first.Outcome)
	assert.Equal(t, OutcomeRateLimited, second.Outcome)
	assert.Len(t, gen.prompts, 1)
}

func TestAdapter_Disabled(t *testing.T) {
	a := NewAdapter(nil, "", Options{}, nil)
	assert.False(t, a.Enabled())
	assert.Equal(t, OutcomeDisabled, a.Generate(context.Background(), "text").Outcome)

	var nilAdapter *Adapter
	assert.False(t, nilAdapter.Enabled())
	assert.Equal(t, OutcomeDisabled, nilAdapter.Generate(context.Background(), "text").Outcome)
}

func TestNewTextGenerator_Errors(t *testing.T) {
	_, err := NewTextGenerator(context.Background(), ClientConfig{Provider: "openai", APIKey: "k"})
	assert.ErrorContains(t, err, "unsupported generation provider")

	_, err = NewTextGenerator(context.Background(), ClientConfig{Provider: ProviderGemini})
	assert.Error(t, err)

	_, err = NewTextGenerator(context.Background(), ClientConfig{Provider: ProviderGenAI})
	assert.Error(t, err)
}

func TestPrompt(t *testing.T) {
	p := Prompt("Send $100 to John")
	assert.Contains(t, p, "Send $100 to John")
	for _, key := range []string{`"amount"`, `"currency"`, `"recipient"`, `"account_number"`, `"iban"`, `"description"`} {
		assert.Contains(t, p, key)
	}
}
