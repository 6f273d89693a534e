// File path: internal/catalog/store.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a listing or profile does not exist.
var ErrNotFound = errors.New("catalog: not found")

// Store wraps a pooled sqlx.DB connection to the SQLite catalog holding
// listings, provider profiles and their cached embeddings.
type Store struct {
	db *sqlx.DB
}

// Open constructs a Store backed by the SQLite database at the provided
// path. The schema is migrated on first use.
func Open(path string) (*Store, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		cfg.Path = trimmed
	}
	return OpenWithConfig(cfg)
}

// OpenWithConfig constructs a Store using the provided configuration.
func OpenWithConfig(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("catalog path required")
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog path: %w", err)
	}
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", abs, int(busy/time.Millisecond))
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), busy)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the underlying sqlx.DB for advanced callers.
func (s *Store) DB() *sqlx.DB {
	if s == nil {
		return nil
	}
	return s.db
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS listings (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		side TEXT NOT NULL,
		price REAL,
		price_min REAL,
		price_max REAL,
		mode TEXT NOT NULL DEFAULT 'BOTH',
		description TEXT NOT NULL DEFAULT '',
		requirements TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'draft',
		reputation REAL NOT NULL DEFAULT 0,
		content_updated_at TIMESTAMP NOT NULL,
		embedding BLOB,
		embedded_at TIMESTAMP,
		embedding_hash TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS listing_subjects (
		listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
		subject TEXT NOT NULL,
		PRIMARY KEY (listing_id, subject)
	)`,
	`CREATE TABLE IF NOT EXISTS listing_levels (
		listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
		level TEXT NOT NULL,
		PRIMARY KEY (listing_id, level)
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		owner_id TEXT PRIMARY KEY,
		headline TEXT NOT NULL DEFAULT '',
		biography TEXT NOT NULL DEFAULT '',
		experience TEXT NOT NULL DEFAULT '',
		reputation REAL NOT NULL DEFAULT 0,
		content_updated_at TIMESTAMP NOT NULL,
		embedding BLOB,
		embedded_at TIMESTAMP,
		embedding_hash TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_side_status ON listings(side, status, reputation)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_owner ON listings(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_listing_subjects_subject ON listing_subjects(subject)`,
	`CREATE INDEX IF NOT EXISTS idx_listing_levels_level ON listing_levels(level)`,
}

func (s *Store) migrate(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("catalog store not initialised")
	}
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
