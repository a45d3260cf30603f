package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/rollbook/internal/record"
	"github.com/roach88/rollbook/internal/store"
)

// Scenario is a scripted sequence of store operations with assertions.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description"`

	// Capacity is the store capacity, from 1 to store.MaxCapacity.
	Capacity int `yaml:"capacity"`

	// Backend selects the store backend. Defaults to memory.
	Backend string `yaml:"backend,omitempty"`

	// UniqueRolls enables roll number uniqueness on set.
	UniqueRolls bool `yaml:"unique_rolls,omitempty"`

	// Steps run in order against a fresh store.
	Steps []Step `yaml:"steps"`

	// Assertions are checked against the store after the last step.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one store operation.
type Step struct {
	// Op is one of OpSet, OpFind, OpUpdate, OpDelete.
	Op string `yaml:"op"`

	// Slot is the target index (set only).
	Slot *int `yaml:"slot,omitempty"`

	// Record is the record to store (set only).
	Record *RecordSpec `yaml:"record,omitempty"`

	// Roll is the lookup key (find, update, delete).
	Roll *int `yaml:"roll,omitempty"`

	// Name and Marks are the replacement values (update only).
	Name  *string `yaml:"name,omitempty"`
	Marks []int   `yaml:"marks,omitempty"`

	// Expect is the expected outcome. Defaults to OutcomeOK.
	Expect string `yaml:"expect,omitempty"`
}

// RecordSpec is a record as written in a scenario file.
// Marks is a list so a wrong length is reported instead of silently padded.
type RecordSpec struct {
	Name  string `yaml:"name"`
	Roll  int    `yaml:"roll"`
	Marks []int  `yaml:"marks"`
}

// ToRecord converts the spec into a normalized record.
func (r RecordSpec) ToRecord() (record.Record, error) {
	marks, err := record.MarksFromSlice(r.Marks)
	if err != nil {
		return record.Record{}, err
	}
	return record.New(r.Name, r.Roll, marks), nil
}

// Assertion is a check over the final store.
type Assertion struct {
	// Type is one of AssertRolls, AssertSize, AssertMissing, AssertRecord.
	Type string `yaml:"type"`

	// Rolls is the exact filled-roll order (rolls).
	Rolls []int `yaml:"rolls,omitempty"`

	// Count is the expected logical size (size).
	Count *int `yaml:"count,omitempty"`

	// Roll is the roll number to look up (missing, record).
	Roll *int `yaml:"roll,omitempty"`

	// Name and Marks are the expected record values (record).
	Name  *string `yaml:"name,omitempty"`
	Marks []int   `yaml:"marks,omitempty"`
}

// Step operations.
const (
	OpSet    = "set"
	OpFind   = "find"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Step outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeNotFound       = "not_found"
	OutcomeSlotOutOfRange = "slot_out_of_range"
	OutcomeDuplicateRoll  = "duplicate_roll"
)

// Assertion type constants.
const (
	AssertRolls   = "rolls"
	AssertSize    = "size"
	AssertMissing = "missing"
	AssertRecord  = "record"
)

var validOutcomes = map[string]bool{
	OutcomeOK:             true,
	OutcomeNotFound:       true,
	OutcomeSlotOutOfRange: true,
	OutcomeDuplicateRoll:  true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Capacity < 1 || s.Capacity > store.MaxCapacity {
		return fmt.Errorf("capacity must be between 1 and %d, got %d", store.MaxCapacity, s.Capacity)
	}

	if s.Backend != "" && !store.IsValidBackend(s.Backend) {
		return fmt.Errorf("backend %q must be one of %v", s.Backend, store.ValidBackends)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i := range s.Steps {
		if err := validateStep(i, &s.Steps[i]); err != nil {
			return err
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, st *Step) error {
	switch st.Op {
	case OpSet:
		if st.Slot == nil {
			return fmt.Errorf("steps[%d]: set requires slot", index)
		}
		if st.Record == nil {
			return fmt.Errorf("steps[%d]: set requires record", index)
		}
		if len(st.Record.Marks) != record.MarkCount {
			return fmt.Errorf("steps[%d]: record needs %d marks, got %d", index, record.MarkCount, len(st.Record.Marks))
		}
	case OpFind, OpDelete:
		if st.Roll == nil {
			return fmt.Errorf("steps[%d]: %s requires roll", index, st.Op)
		}
	case OpUpdate:
		if st.Roll == nil {
			return fmt.Errorf("steps[%d]: update requires roll", index)
		}
		if st.Name == nil {
			return fmt.Errorf("steps[%d]: update requires name", index)
		}
		if len(st.Marks) != record.MarkCount {
			return fmt.Errorf("steps[%d]: update needs %d marks, got %d", index, record.MarkCount, len(st.Marks))
		}
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}

	if st.Expect != "" && !validOutcomes[st.Expect] {
		return fmt.Errorf("steps[%d]: unknown expect %q", index, st.Expect)
	}

	return nil
}

// validateAssertion checks assertion-specific required fields.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertRolls:
		if a.Rolls == nil {
			return fmt.Errorf("assertions[%d]: rolls requires rolls list", index)
		}
	case AssertSize:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: size requires count", index)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertMissing:
		if a.Roll == nil {
			return fmt.Errorf("assertions[%d]: missing requires roll", index)
		}
	case AssertRecord:
		if a.Roll == nil {
			return fmt.Errorf("assertions[%d]: record requires roll", index)
		}
		if a.Marks != nil && len(a.Marks) != record.MarkCount {
			return fmt.Errorf("assertions[%d]: record needs %d marks, got %d", index, record.MarkCount, len(a.Marks))
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
