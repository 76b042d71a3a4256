// Package store persists processed transfers in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"fjacquet/transfer-assistant/internal/fileutils"

	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// InitDB opens (or creates) the SQLite database at path and ensures the
// schema exists.
func InitDB(path string) (*sql.DB, error) {
	if path != MemoryDSN {
		if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == MemoryDSN {
		// Every connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			result_id TEXT NOT NULL,
			amount TEXT NOT NULL,
			currency TEXT NOT NULL,
			recipient TEXT NOT NULL,
			account_number TEXT,
			iban TEXT,
			description TEXT,
			timestamp DATETIME NOT NULL,
			original_text TEXT,
			is_valid BOOLEAN NOT NULL,
			validation_errors TEXT NOT NULL,
			validation_warnings TEXT NOT NULL,
			processing_method TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_currency ON transactions(currency)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_recipient ON transactions(recipient)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_is_valid ON transactions(is_valid)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}
