package scenario

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/rollbook/internal/record"
	"github.com/roach88/rollbook/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes the final slots to help debug the failure.
type AssertionError struct {
	Type     string        // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Slots    []record.Slot // Final store contents for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFinal slots:\n")
	for _, s := range e.Slots {
		if s.Filled {
			fmt.Fprintf(&buf, "  [%d] %s (roll %d) %v\n", s.Index, s.Record.Name, s.Record.Roll, s.Record.Marks)
		} else {
			fmt.Fprintf(&buf, "  [%d] vacant\n", s.Index)
		}
	}

	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the store.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(ctx context.Context, st store.RecordStore, assertions []Assertion) []string {
	var errors []string
	if len(assertions) == 0 {
		return errors
	}

	slots, err := st.Slots(ctx)
	if err != nil {
		return []string{fmt.Sprintf("read slots: %v", err)}
	}

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertRolls:
			err = assertRolls(slots, assertion)
		case AssertSize:
			err = assertSize(slots, assertion)
		case AssertMissing:
			err = assertMissing(ctx, st, slots, assertion)
		case AssertRecord:
			err = assertRecord(ctx, st, slots, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

// assertRolls checks the exact order of filled roll numbers.
func assertRolls(slots []record.Slot, assertion Assertion) error {
	actual := filledRolls(slots)
	if slices.Equal(actual, assertion.Rolls) {
		return nil
	}
	return &AssertionError{
		Type:     AssertRolls,
		Expected: fmt.Sprintf("rolls %v", assertion.Rolls),
		Actual:   fmt.Sprintf("rolls %v", actual),
		Slots:    slots,
	}
}

// assertSize checks the logical size of the store.
func assertSize(slots []record.Slot, assertion Assertion) error {
	if len(slots) == *assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertSize,
		Expected: fmt.Sprintf("size %d", *assertion.Count),
		Actual:   fmt.Sprintf("size %d", len(slots)),
		Slots:    slots,
	}
}

// assertMissing checks that no filled slot holds the roll.
func assertMissing(ctx context.Context, st store.RecordStore, slots []record.Slot, assertion Assertion) error {
	slot, err := st.FindByRoll(ctx, *assertion.Roll)
	if record.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("assertion %s: %w", AssertMissing, err)
	}
	return &AssertionError{
		Type:     AssertMissing,
		Expected: fmt.Sprintf("roll %d absent", *assertion.Roll),
		Actual:   fmt.Sprintf("roll %d found at slot %d", *assertion.Roll, slot.Index),
		Slots:    slots,
	}
}

// assertRecord checks that the first slot holding the roll has the expected
// name and marks. Omitted name or marks are not checked.
func assertRecord(ctx context.Context, st store.RecordStore, slots []record.Slot, assertion Assertion) error {
	slot, err := st.FindByRoll(ctx, *assertion.Roll)
	if record.IsNotFound(err) {
		return &AssertionError{
			Type:     AssertRecord,
			Expected: fmt.Sprintf("roll %d present", *assertion.Roll),
			Actual:   "not found",
			Slots:    slots,
		}
	}
	if err != nil {
		return fmt.Errorf("assertion %s: %w", AssertRecord, err)
	}

	if assertion.Name != nil && slot.Record.Name != record.NormalizeName(*assertion.Name) {
		return &AssertionError{
			Type:     AssertRecord,
			Expected: fmt.Sprintf("roll %d name %q", *assertion.Roll, record.NormalizeName(*assertion.Name)),
			Actual:   fmt.Sprintf("name %q", slot.Record.Name),
			Slots:    slots,
		}
	}

	if assertion.Marks != nil && !slices.Equal(slot.Record.Marks[:], assertion.Marks) {
		return &AssertionError{
			Type:     AssertRecord,
			Expected: fmt.Sprintf("roll %d marks %v", *assertion.Roll, assertion.Marks),
			Actual:   fmt.Sprintf("marks %v", slot.Record.Marks[:]),
			Slots:    slots,
		}
	}

	return nil
}

func filledRolls(slots []record.Slot) []int {
	rolls := []int{}
	for _, s := range slots {
		if s.Filled {
			rolls = append(rolls, s.Record.Roll)
		}
	}
	return rolls
}
