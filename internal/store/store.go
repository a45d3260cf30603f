package store

import (
	"context"
	"fmt"

	"github.com/roach88/rollbook/internal/record"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// ValidBackends lists the accepted backend names.
var ValidBackends = []string{BackendMemory, BackendSQLite}

// RecordStore is the bounded, ordered collection of student records.
type RecordStore interface {
	// Cap returns the capacity fixed at creation.
	Cap() int

	// Len returns the current logical size.
	Len(ctx context.Context) (int, error)

	// Set stores rec at index, overwriting whatever the slot held.
	// Returns SLOT_OUT_OF_RANGE for an index outside [0, Len()), and
	// DUPLICATE_ROLL when unique rolls are enforced and another slot holds rec.Roll.
	Set(ctx context.Context, index int, rec record.Record) error

	// Slots returns every logical slot in position order, vacant ones included.
	Slots(ctx context.Context) ([]record.Slot, error)

	// FindByRoll returns the first filled slot holding roll.
	FindByRoll(ctx context.Context, roll int) (record.Slot, error)

	// UpdateByRoll overwrites the name and marks of the first slot holding roll.
	// The roll number itself never changes.
	UpdateByRoll(ctx context.Context, roll int, name string, marks record.Marks) error

	// DeleteByRoll removes the first slot holding roll, compacts the store
	// and returns the removed slot.
	DeleteByRoll(ctx context.Context, roll int) (record.Slot, error)

	// Close releases backend resources.
	Close() error
}

// MaxCapacity is the largest number of slots a store can be opened with.
// Both backends allocate every slot up front.
const MaxCapacity = 10000

// Options configures a new store.
type Options struct {
	Backend     string // "memory" (default) | "sqlite"
	Capacity    int    // 1..MaxCapacity
	UniqueRolls bool   // reject Set calls that would duplicate a roll number
}

// Open creates a store for the configured backend.
func Open(ctx context.Context, opts Options) (RecordStore, error) {
	switch opts.Backend {
	case "", BackendMemory:
		m, err := NewMemory(opts)
		if err != nil {
			return nil, err
		}
		return m, nil
	case BackendSQLite:
		s, err := OpenSQLite(ctx, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown backend %q: must be one of %v", opts.Backend, ValidBackends)
	}
}

// IsValidBackend checks if the backend is one of the accepted names.
func IsValidBackend(backend string) bool {
	for _, b := range ValidBackends {
		if b == backend {
			return true
		}
	}
	return false
}

func validateCapacity(capacity int) error {
	if capacity < 1 {
		return fmt.Errorf("capacity must be at least 1, got %d", capacity)
	}
	if capacity > MaxCapacity {
		return fmt.Errorf("capacity must be at most %d, got %d", MaxCapacity, capacity)
	}
	return nil
}
