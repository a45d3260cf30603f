package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/rollbook/internal/record"
)

const slotColumns = `position, filled, name, roll, mark_1, mark_2, mark_3, mark_4`

// rowQuerier is satisfied by both *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Len implements RecordStore.
func (s *SQLite) Len(ctx context.Context) (int, error) {
	return countSlots(ctx, s.db)
}

// Slots implements RecordStore. Slots are returned in position order.
// Returns an empty slice (not nil) when every slot has been deleted.
func (s *SQLite) Slots(ctx context.Context) ([]record.Slot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+slotColumns+`
		FROM slots
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query slots: %w", err)
	}
	defer rows.Close()

	slots := []record.Slot{}
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return slots, nil
}

// FindByRoll implements RecordStore.
func (s *SQLite) FindByRoll(ctx context.Context, roll int) (record.Slot, error) {
	return findByRoll(ctx, s.db, roll)
}

// findByRoll scans filled slots in position order and returns the first match.
func findByRoll(ctx context.Context, q rowQuerier, roll int) (record.Slot, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+slotColumns+`
		FROM slots
		WHERE filled = 1 AND roll = ?
		ORDER BY position ASC
		LIMIT 1
	`, roll)

	slot, err := scanSlot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Slot{}, record.NewNotFoundError(roll)
	}
	if err != nil {
		return record.Slot{}, fmt.Errorf("find by roll: %w", err)
	}
	return slot, nil
}

func countSlots(ctx context.Context, q rowQuerier) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM slots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count slots: %w", err)
	}
	return n, nil
}

// scanSlot scans a row selected with slotColumns.
func scanSlot(sc rowScanner) (record.Slot, error) {
	var (
		slot   record.Slot
		filled int
	)
	err := sc.Scan(
		&slot.Index,
		&filled,
		&slot.Record.Name,
		&slot.Record.Roll,
		&slot.Record.Marks[0],
		&slot.Record.Marks[1],
		&slot.Record.Marks[2],
		&slot.Record.Marks[3],
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return record.Slot{}, err
		}
		return record.Slot{}, fmt.Errorf("scan slot: %w", err)
	}
	slot.Filled = filled == 1
	return slot, nil
}
