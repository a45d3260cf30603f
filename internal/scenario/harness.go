package scenario

import (
	"context"
	"fmt"

	"github.com/roach88/rollbook/internal/record"
	"github.com/roach88/rollbook/internal/store"
)

// Harness executes scenario steps against one store.
type Harness struct {
	store store.RecordStore
	seq   int64
}

// Run executes a scenario against a fresh store.
//
// Unexpected step outcomes and failed assertions are reported in the
// result; an error is returned only when the scenario cannot be executed
// (the store fails to open or a store call fails for a reason other than
// the record errors a step can expect).
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(ctx, store.Options{
		Backend:     scenario.Backend,
		Capacity:    scenario.Capacity,
		UniqueRolls: scenario.UniqueRolls,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	h := &Harness{store: st}
	result := NewResult()

	for i, step := range scenario.Steps {
		event, err := h.executeStep(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("steps[%d] %s: %w", i, step.Op, err)
		}
		result.AddTrace(event)

		expected := step.Expect
		if expected == "" {
			expected = OutcomeOK
		}
		if event.Outcome != expected {
			result.AddError(fmt.Sprintf("steps[%d] %s: expected outcome %q, got %q", i, step.Op, expected, event.Outcome))
		}
	}

	final, err := st.Slots(ctx)
	if err != nil {
		return nil, fmt.Errorf("read final state: %w", err)
	}
	result.Final = final

	for _, msg := range EvaluateAssertions(ctx, st, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func (h *Harness) executeStep(ctx context.Context, step Step) (TraceEvent, error) {
	h.seq++
	event := TraceEvent{Seq: h.seq, Op: step.Op, Args: map[string]any{}}

	var opErr error
	switch step.Op {
	case OpSet:
		rec, err := step.Record.ToRecord()
		if err != nil {
			return TraceEvent{}, err
		}
		event.Args["slot"] = *step.Slot
		event.Args["record"] = rec
		opErr = h.store.Set(ctx, *step.Slot, rec)

	case OpFind:
		event.Args["roll"] = *step.Roll
		slot, err := h.store.FindByRoll(ctx, *step.Roll)
		if err == nil {
			event.Slot = &slot
		}
		opErr = err

	case OpUpdate:
		marks, err := record.MarksFromSlice(step.Marks)
		if err != nil {
			return TraceEvent{}, err
		}
		event.Args["roll"] = *step.Roll
		event.Args["name"] = *step.Name
		event.Args["marks"] = marks
		opErr = h.store.UpdateByRoll(ctx, *step.Roll, *step.Name, marks)

	case OpDelete:
		event.Args["roll"] = *step.Roll
		slot, err := h.store.DeleteByRoll(ctx, *step.Roll)
		if err == nil {
			event.Slot = &slot
		}
		opErr = err

	default:
		return TraceEvent{}, fmt.Errorf("unknown op %q", step.Op)
	}

	outcome, err := outcomeOf(opErr)
	if err != nil {
		return TraceEvent{}, err
	}
	event.Outcome = outcome
	return event, nil
}

// outcomeOf maps a store error onto a step outcome.
// Errors that are not record errors are returned unchanged.
func outcomeOf(err error) (string, error) {
	switch {
	case err == nil:
		return OutcomeOK, nil
	case record.IsNotFound(err):
		return OutcomeNotFound, nil
	case record.IsSlotOutOfRange(err):
		return OutcomeSlotOutOfRange, nil
	case record.IsDuplicateRoll(err):
		return OutcomeDuplicateRoll, nil
	default:
		return "", err
	}
}
