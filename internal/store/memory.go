package store

import (
	"context"

	"github.com/roach88/rollbook/internal/record"
)

// Memory is a RecordStore backed by a slice owned by the caller's process.
// It is not safe for concurrent use; a session drives it from one goroutine.
type Memory struct {
	slots       []record.Slot
	capacity    int
	uniqueRolls bool
}

var _ RecordStore = (*Memory)(nil)

// NewMemory creates a Memory store with every slot vacant.
func NewMemory(opts Options) (*Memory, error) {
	if err := validateCapacity(opts.Capacity); err != nil {
		return nil, err
	}

	slots := make([]record.Slot, opts.Capacity)
	for i := range slots {
		slots[i].Index = i
	}

	return &Memory{
		slots:       slots,
		capacity:    opts.Capacity,
		uniqueRolls: opts.UniqueRolls,
	}, nil
}

// Cap implements RecordStore.
func (m *Memory) Cap() int {
	return m.capacity
}

// Len implements RecordStore.
func (m *Memory) Len(ctx context.Context) (int, error) {
	return len(m.slots), nil
}

// Set implements RecordStore.
func (m *Memory) Set(ctx context.Context, index int, rec record.Record) error {
	if index < 0 || index >= len(m.slots) {
		return record.NewSlotOutOfRangeError(index, len(m.slots))
	}

	if m.uniqueRolls {
		for i, s := range m.slots {
			if i != index && s.Filled && s.Record.Roll == rec.Roll {
				return record.NewDuplicateRollError(rec.Roll, i)
			}
		}
	}

	m.slots[index] = record.Slot{Index: index, Record: rec, Filled: true}
	return nil
}

// Slots implements RecordStore. The returned slice is a copy.
func (m *Memory) Slots(ctx context.Context) ([]record.Slot, error) {
	out := make([]record.Slot, len(m.slots))
	copy(out, m.slots)
	return out, nil
}

// FindByRoll implements RecordStore.
func (m *Memory) FindByRoll(ctx context.Context, roll int) (record.Slot, error) {
	i := m.indexOf(roll)
	if i < 0 {
		return record.Slot{}, record.NewNotFoundError(roll)
	}
	return m.slots[i], nil
}

// UpdateByRoll implements RecordStore.
func (m *Memory) UpdateByRoll(ctx context.Context, roll int, name string, marks record.Marks) error {
	i := m.indexOf(roll)
	if i < 0 {
		return record.NewNotFoundError(roll)
	}
	m.slots[i].Record.Name = record.NormalizeName(name)
	m.slots[i].Record.Marks = marks
	return nil
}

// DeleteByRoll implements RecordStore.
func (m *Memory) DeleteByRoll(ctx context.Context, roll int) (record.Slot, error) {
	i := m.indexOf(roll)
	if i < 0 {
		return record.Slot{}, record.NewNotFoundError(roll)
	}

	removed := m.slots[i]
	m.slots[i] = record.Slot{}

	copy(m.slots[i:], m.slots[i+1:])
	m.slots[len(m.slots)-1] = record.Slot{}
	m.slots = m.slots[:len(m.slots)-1]
	for j := i; j < len(m.slots); j++ {
		m.slots[j].Index = j
	}

	return removed, nil
}

// Close implements RecordStore. Memory holds no external resources.
func (m *Memory) Close() error {
	return nil
}

// indexOf returns the position of the first filled slot holding roll, or -1.
func (m *Memory) indexOf(roll int) int {
	for i, s := range m.slots {
		if s.Filled && s.Record.Roll == roll {
			return i
		}
	}
	return -1
}
