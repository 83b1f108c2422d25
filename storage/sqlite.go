package storage

import (
	"context"
	"database/sql"
	stderrors "errors"

	_ "modernc.org/sqlite"

	"github.com/wippyai/wasm96/errors"
)

// SQLite persists values in a SQLite database
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and runs the schema
// migration.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.InvalidInput(errors.PhaseStorage, "sqlite storage needs a path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseStorage, errors.KindNotInitialized, err, "open storage db")
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.PhaseStorage, errors.KindNotInitialized, err, "set WAL mode")
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.PhaseStorage, errors.KindNotInitialized, err, "migrate storage db")
	}
	return &SQLite{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at INTEGER NOT NULL DEFAULT (unixepoch())
		)
	`)
	return err
}

func (s *SQLite) Save(ctx context.Context, key string, data []byte) error {
	if err := checkValue(key, data); err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO kv (key, value, updated_at) VALUES (?, ?, unixepoch()) "+
			"ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		key, data,
	)
	if err != nil {
		return errors.Wrap(errors.PhaseStorage, errors.KindInvalidState, err, "save "+key)
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&v)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.PhaseStorage, errors.KindInvalidState, err, "load "+key)
	}
	if v == nil {
		v = []byte{}
	}
	return v, true, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
