// Package sqlite persists the inventory state record in a local SQLite file.
//
// The store state is a single JSON record addressed by key, rewritten whole on
// every mutation. Use ":memory:" for tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// StateRepository implements inventory.StateRepository on SQLite.
type StateRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// New opens (or creates) the database at path and migrates the schema.
func New(path string, logger *zap.Logger) (*StateRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	repo := &StateRepository{db: db, logger: logger}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("sqlite state repository ready", zap.String("path", path))
	return repo, nil
}

// Close closes the database connection.
func (r *StateRepository) Close() error {
	return r.db.Close()
}

func (r *StateRepository) migrate() error {
	_, err := r.db.Exec(`
	CREATE TABLE IF NOT EXISTS kv_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`)
	return err
}

// Load returns the record stored under key, and false when there is none.
func (r *StateRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load state %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// Save replaces the record stored under key.
func (r *StateRepository) Save(ctx context.Context, key string, data []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save state %s: %w", key, err)
	}

	r.logger.Debug("state saved", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}
