package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/rollbook/internal/record"
)

// backendCase names a backend and opens a fresh store for it.
type backendCase struct {
	name string
	open func(t *testing.T, opts Options) RecordStore
}

// backends returns one case per RecordStore implementation.
// Every contract test runs against all of them.
func backends() []backendCase {
	return []backendCase{
		{
			name: BackendMemory,
			open: func(t *testing.T, opts Options) RecordStore {
				t.Helper()
				m, err := NewMemory(opts)
				require.NoError(t, err)
				return m
			},
		},
		{
			name: BackendSQLite,
			open: func(t *testing.T, opts Options) RecordStore {
				t.Helper()
				s, err := OpenSQLite(context.Background(), opts)
				require.NoError(t, err)
				t.Cleanup(func() { s.Close() })
				return s
			},
		},
	}
}

// seed fills slots 0..len(rolls)-1 with records named after their roll.
func seed(t *testing.T, st RecordStore, rolls ...int) {
	t.Helper()
	ctx := context.Background()
	for i, roll := range rolls {
		require.NoError(t, st.Set(ctx, i, testRecord(roll)))
	}
}

func testRecord(roll int) record.Record {
	return record.New(nameFor(roll), roll, record.Marks{roll, roll + 1, roll + 2, roll + 3})
}

func nameFor(roll int) string {
	names := map[int]string{10: "Asha", 20: "Bilal", 30: "Chen", 40: "Dara"}
	if n, ok := names[roll]; ok {
		return n
	}
	return "Student"
}

// filledRolls returns the roll numbers of filled slots in order.
func filledRolls(t *testing.T, st RecordStore) []int {
	t.Helper()
	slots, err := st.Slots(context.Background())
	require.NoError(t, err)

	rolls := []int{}
	for _, s := range slots {
		if s.Filled {
			rolls = append(rolls, s.Record.Roll)
		}
	}
	return rolls
}
