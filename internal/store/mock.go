package store

import (
	"context"
	"sync"

	"fjacquet/transfer-assistant/internal/processor"
)

// MockResultStore is an in-memory Repository for tests.
type MockResultStore struct {
	mu    sync.Mutex
	items []StoredTransaction

	// Error flags for testing error conditions
	SaveError error
	GetError  error
	ListError error
}

// Save appends r, replacing an earlier entry with the same record id.
func (m *MockResultStore) Save(_ context.Context, r processor.Result) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	if r.Record == nil || r.Verdict == nil {
		return ErrNoRecord
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	st := StoredTransaction{
		ResultID: r.ID,
		Text:     r.Text,
		Record:   *r.Record,
		Verdict:  *r.Verdict,
		Method:   r.Method,
		SavedAt:  r.ProcessedAt,
	}
	for i := range m.items {
		if m.items[i].Record.ID == st.Record.ID {
			m.items[i] = st
			return nil
		}
	}
	m.items = append(m.items, st)
	return nil
}

// Get returns the entry with the given record id.
func (m *MockResultStore) Get(_ context.Context, id string) (StoredTransaction, error) {
	if m.GetError != nil {
		return StoredTransaction{}, m.GetError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, st := range m.items {
		if st.Record.ID == id {
			return st, nil
		}
	}
	return StoredTransaction{}, ErrNotFound
}

// List returns the newest entries first.
func (m *MockResultStore) List(_ context.Context, limit int) ([]StoredTransaction, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var out []StoredTransaction
	for i := len(m.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.items[i])
	}
	return out, nil
}

// Len returns the number of stored entries.
func (m *MockResultStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
