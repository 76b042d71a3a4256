package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fjacquet/transfer-assistant/internal/logging"
	"fjacquet/transfer-assistant/internal/models"
	"fjacquet/transfer-assistant/internal/processor"

	"github.com/shopspring/decimal"
)

// DefaultListLimit is used when List is called with a non-positive limit.
const DefaultListLimit = 50

var (
	// ErrNotFound is returned by Get for an unknown id.
	ErrNotFound = errors.New("transaction not found")
	// ErrNoRecord is returned by Save for a result without a record.
	ErrNoRecord = errors.New("result has no transaction record")
)

// StoredTransaction is a saved record together with its verdict and the text
// it was built from.
type StoredTransaction struct {
	ResultID string             `json:"result_id"`
	Text     string             `json:"text"`
	Record   models.Transaction `json:"transaction"`
	Verdict  models.Verdict     `json:"validation"`
	Method   string             `json:"processing_method"`
	SavedAt  time.Time          `json:"saved_at"`
}

// Sealer encrypts and decrypts the sensitive fields of a record.
type Sealer interface {
	Protect(tx models.Transaction) (models.Transaction, error)
	Reveal(tx models.Transaction) (models.Transaction, error)
}

// Repository is the persistence used by the commands and the HTTP API.
type Repository interface {
	Save(ctx context.Context, r processor.Result) error
	Get(ctx context.Context, id string) (StoredTransaction, error)
	List(ctx context.Context, limit int) ([]StoredTransaction, error)
}

// ResultStore keeps processed transfers in the transactions table. When a
// Sealer is set, account numbers and IBANs are encrypted at rest.
type ResultStore struct {
	db     *sql.DB
	sealer Sealer
	logger logging.Logger
	now    func() time.Time
}

// NewResultStore wraps an initialised database. sealer may be nil.
func NewResultStore(db *sql.DB, sealer Sealer, logger logging.Logger) *ResultStore {
	return &ResultStore{
		db:     db,
		sealer: sealer,
		logger: logging.OrDiscard(logger),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Open initialises the database at path and returns a store over it.
func Open(path string, sealer Sealer, logger logging.Logger) (*ResultStore, error) {
	db, err := InitDB(path)
	if err != nil {
		return nil, err
	}
	return NewResultStore(db, sealer, logger), nil
}

// Close closes the underlying database.
func (s *ResultStore) Close() error {
	return s.db.Close()
}

// Save stores the record, verdict and original text of r. Saving the same
// record again replaces the previous row.
func (s *ResultStore) Save(ctx context.Context, r processor.Result) error {
	if r.Record == nil || r.Verdict == nil {
		return ErrNoRecord
	}

	tx := *r.Record
	if s.sealer != nil {
		protected, err := s.sealer.Protect(tx)
		if err != nil {
			return fmt.Errorf("protect record: %w", err)
		}
		tx = protected
	}

	errs, err := json.Marshal(r.Verdict.Errors)
	if err != nil {
		return fmt.Errorf("encode errors: %w", err)
	}
	warnings, err := json.Marshal(r.Verdict.Warnings)
	if err != nil {
		return fmt.Errorf("encode warnings: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO transactions
		(id, result_id, amount, currency, recipient, account_number, iban,
		 description, timestamp, original_text, is_valid, validation_errors,
		 validation_warnings, processing_method, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		tx.ID, r.ID, tx.Amount.String(), tx.Currency, tx.Recipient,
		nullable(tx.AccountNumber), nullable(tx.IBAN), nullable(tx.Description),
		tx.CreatedAt.UTC().Format(time.RFC3339Nano), r.Text, r.Verdict.IsValid,
		string(errs), string(warnings), r.Method,
		s.now().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	s.logger.Debug("Saved transaction", logging.F(logging.FieldRecordID, tx.ID))
	return nil
}

const selectColumns = `SELECT id, result_id, amount, currency, recipient,
	account_number, iban, description, timestamp, original_text, is_valid,
	validation_errors, validation_warnings, processing_method, created_at
	FROM transactions`

// Get returns the stored transaction with the given record id.
func (s *ResultStore) Get(ctx context.Context, id string) (StoredTransaction, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	st, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredTransaction{}, ErrNotFound
	}
	return st, err
}

// List returns the most recently saved transactions first.
func (s *ResultStore) List(ctx context.Context, limit int) ([]StoredTransaction, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []StoredTransaction
	for rows.Next() {
		st, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Count returns the number of stored transactions.
func (s *ResultStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (s *ResultStore) scan(row scanner) (StoredTransaction, error) {
	var (
		st                         StoredTransaction
		amount, timestamp, savedAt string
		errs, warnings             string
		account, iban, description sql.NullString
		text                       sql.NullString
	)
	err := row.Scan(&st.Record.ID, &st.ResultID, &amount, &st.Record.Currency,
		&st.Record.Recipient, &account, &iban, &description, &timestamp, &text,
		&st.Verdict.IsValid, &errs, &warnings, &st.Method, &savedAt)
	if err != nil {
		return StoredTransaction{}, err
	}

	if st.Record.Amount, err = decimal.NewFromString(amount); err != nil {
		return StoredTransaction{}, fmt.Errorf("decode amount: %w", err)
	}
	if st.Record.CreatedAt, err = time.Parse(time.RFC3339Nano, timestamp); err != nil {
		return StoredTransaction{}, fmt.Errorf("decode timestamp: %w", err)
	}
	if st.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
		return StoredTransaction{}, fmt.Errorf("decode created_at: %w", err)
	}
	if err := json.Unmarshal([]byte(errs), &st.Verdict.Errors); err != nil {
		return StoredTransaction{}, fmt.Errorf("decode errors: %w", err)
	}
	if err := json.Unmarshal([]byte(warnings), &st.Verdict.Warnings); err != nil {
		return StoredTransaction{}, fmt.Errorf("decode warnings: %w", err)
	}
	st.Verdict = models.NewVerdict(st.Verdict.Errors, st.Verdict.Warnings)
	st.Text = text.String
	st.Record.AccountNumber = fromNullable(account)
	st.Record.IBAN = fromNullable(iban)
	st.Record.Description = fromNullable(description)

	if s.sealer != nil {
		if st.Record, err = s.sealer.Reveal(st.Record); err != nil {
			return StoredTransaction{}, fmt.Errorf("reveal record: %w", err)
		}
	}
	return st, nil
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func fromNullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return models.Ptr(ns.String)
}
