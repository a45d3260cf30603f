package scenario

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rollbook/internal/record"
	"github.com/roach88/rollbook/internal/store"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func setStep(slot, roll int) Step {
	return Step{
		Op:     OpSet,
		Slot:   intPtr(slot),
		Record: &RecordSpec{Name: "S", Roll: roll, Marks: []int{1, 2, 3, 4}},
	}
}

func expecting(step Step, outcome string) Step {
	step.Expect = outcome
	return step
}

func TestRun_ExampleScenariosPass(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			sc, err := LoadScenario(f)
			require.NoError(t, err)

			for _, backend := range store.ValidBackends {
				sc.Backend = backend
				result, err := Run(context.Background(), sc)
				require.NoError(t, err, "backend %s", backend)
				assert.True(t, result.Pass, "backend %s errors: %v", backend, result.Errors)
			}
		})
	}
}

func TestRun_TraceRecordsEveryStep(t *testing.T) {
	sc := &Scenario{
		Name:        "trace",
		Description: "trace",
		Capacity:    2,
		Steps: []Step{
			setStep(0, 10),
			{Op: OpFind, Roll: intPtr(10)},
			{Op: OpUpdate, Roll: intPtr(10), Name: strPtr("T"), Marks: []int{4, 3, 2, 1}},
			{Op: OpDelete, Roll: intPtr(10)},
		},
	}

	result, err := Run(context.Background(), sc)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)

	require.Len(t, result.Trace, 4)
	for i, ev := range result.Trace {
		assert.Equal(t, int64(i+1), ev.Seq)
		assert.Equal(t, OutcomeOK, ev.Outcome)
	}
	assert.Equal(t, OpFind, result.Trace[1].Op)
	require.NotNil(t, result.Trace[1].Slot)
	assert.Equal(t, 10, result.Trace[1].Slot.Record.Roll)

	require.NotNil(t, result.Trace[3].Slot)
	assert.Equal(t, "T", result.Trace[3].Slot.Record.Name)
	assert.Equal(t, record.Marks{4, 3, 2, 1}, result.Trace[3].Slot.Record.Marks)

	assert.Equal(t, []record.Slot{{Index: 0}}, result.Final)
}

func TestRun_UnexpectedOutcomeFails(t *testing.T) {
	sc := &Scenario{
		Name:        "unexpected",
		Description: "delete of a missing roll expected to succeed",
		Capacity:    1,
		Steps:       []Step{{Op: OpDelete, Roll: intPtr(5)}},
	}

	result, err := Run(context.Background(), sc)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `steps[0] delete: expected outcome "ok", got "not_found"`)
}

func TestRun_ExpectedFailureOutcomesPass(t *testing.T) {
	sc := &Scenario{
		Name:        "expected",
		Description: "every failure outcome",
		Capacity:    2,
		UniqueRolls: true,
		Steps: []Step{
			setStep(0, 10),
			expecting(setStep(5, 11), OutcomeSlotOutOfRange),
			expecting(setStep(1, 10), OutcomeDuplicateRoll),
			{Op: OpFind, Roll: intPtr(99), Expect: OutcomeNotFound},
		},
	}

	result, err := Run(context.Background(), sc)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_FreshStorePerRun(t *testing.T) {
	sc := &Scenario{
		Name:        "fresh",
		Description: "second run starts empty",
		Capacity:    1,
		Steps:       []Step{setStep(0, 10)},
		Assertions:  []Assertion{{Type: AssertRolls, Rolls: []int{10}}},
	}

	for _, backend := range store.ValidBackends {
		sc.Backend = backend
		for i := 0; i < 2; i++ {
			result, err := Run(context.Background(), sc)
			require.NoError(t, err)
			assert.True(t, result.Pass, result.Errors)
		}
	}
}

func TestRun_BadCapacity(t *testing.T) {
	_, err := Run(context.Background(), &Scenario{Capacity: 0, Steps: []Step{setStep(0, 1)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open store")
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeOK},
		{record.NewNotFoundError(1), OutcomeNotFound},
		{record.NewSlotOutOfRangeError(3, 2), OutcomeSlotOutOfRange},
		{record.NewDuplicateRollError(1, 0), OutcomeDuplicateRoll},
	}
	for _, tt := range tests {
		got, err := outcomeOf(tt.err)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := outcomeOf(assert.AnError)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestResult_AddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)
	r.AddError("boom")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"boom"}, r.Errors)
}
