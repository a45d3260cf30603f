package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// memoryDSN opens a private in-memory database. Each connection to it would
// see a different database, which is why the pool is pinned to one connection.
const memoryDSN = ":memory:"

// SQLite is a RecordStore backed by an in-memory SQLite database.
type SQLite struct {
	db          *sql.DB
	capacity    int
	uniqueRolls bool
}

var _ RecordStore = (*SQLite)(nil)

// OpenSQLite creates an in-memory SQLite store with opts.Capacity vacant slots.
//
// The database is configured with:
//   - a single open and idle connection, so the in-memory database survives
//   - in-memory rollback journal and temp store
//   - synchronous=OFF (there is no file to sync)
func OpenSQLite(ctx context.Context, opts Options) (*SQLite, error) {
	if err := validateCapacity(opts.Capacity); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &SQLite{db: db, capacity: opts.Capacity, uniqueRolls: opts.UniqueRolls}
	if err := s.allocateSlots(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Cap implements RecordStore.
func (s *SQLite) Cap() int {
	return s.capacity
}

// Close closes the database connection, discarding every record.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = MEMORY",
		"PRAGMA synchronous = OFF",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist.
func applySchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// allocateSlots inserts one vacant row per slot.
func (s *SQLite) allocateSlots(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("allocate slots: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO slots (position) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("allocate slots: prepare: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < s.capacity; i++ {
		if _, err := stmt.ExecContext(ctx, i); err != nil {
			return fmt.Errorf("allocate slots: insert %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("allocate slots: commit: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *SQLite) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
