package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/rollbook/internal/record"
)

// Set implements RecordStore.
// The range check, uniqueness check and write run in one transaction.
func (s *SQLite) Set(ctx context.Context, index int, rec record.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("set: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	size, err := countSlots(ctx, tx)
	if err != nil {
		return fmt.Errorf("set: %w", err)
	}
	if index < 0 || index >= size {
		return record.NewSlotOutOfRangeError(index, size)
	}

	if s.uniqueRolls {
		var heldBy int
		err := tx.QueryRowContext(ctx, `
			SELECT position FROM slots
			WHERE filled = 1 AND roll = ? AND position <> ?
			ORDER BY position ASC
			LIMIT 1
		`, rec.Roll, index).Scan(&heldBy)
		switch {
		case err == nil:
			return record.NewDuplicateRollError(rec.Roll, heldBy)
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("set: check roll: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE slots
		SET filled = 1, name = ?, roll = ?, mark_1 = ?, mark_2 = ?, mark_3 = ?, mark_4 = ?
		WHERE position = ?
	`,
		rec.Name,
		rec.Roll,
		rec.Marks[0],
		rec.Marks[1],
		rec.Marks[2],
		rec.Marks[3],
		index,
	)
	if err != nil {
		return fmt.Errorf("set: update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set: commit: %w", err)
	}
	return nil
}

// UpdateByRoll implements RecordStore.
func (s *SQLite) UpdateByRoll(ctx context.Context, roll int, name string, marks record.Marks) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update: begin tx: %w", err)
	}
	defer tx.Rollback()

	slot, err := findByRoll(ctx, tx, roll)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE slots
		SET name = ?, mark_1 = ?, mark_2 = ?, mark_3 = ?, mark_4 = ?
		WHERE position = ?
	`,
		record.NormalizeName(name),
		marks[0],
		marks[1],
		marks[2],
		marks[3],
		slot.Index,
	)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update: commit: %w", err)
	}
	return nil
}

// DeleteByRoll implements RecordStore.
// The matched row is removed and every later position is decremented in the
// same transaction, which is the SQL form of a left shift.
func (s *SQLite) DeleteByRoll(ctx context.Context, roll int) (record.Slot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return record.Slot{}, fmt.Errorf("delete: begin tx: %w", err)
	}
	defer tx.Rollback()

	slot, err := findByRoll(ctx, tx, roll)
	if err != nil {
		return record.Slot{}, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM slots WHERE position = ?`, slot.Index); err != nil {
		return record.Slot{}, fmt.Errorf("delete: remove slot: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE slots SET position = position - 1 WHERE position > ?
	`, slot.Index); err != nil {
		return record.Slot{}, fmt.Errorf("delete: compact: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return record.Slot{}, fmt.Errorf("delete: commit: %w", err)
	}
	return slot, nil
}
