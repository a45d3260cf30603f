package record

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MarkCount is the number of marks held by every record.
const MarkCount = 4

// Marks is the fixed-length ordered list of a student's marks.
type Marks [MarkCount]int

// Total returns the sum of all marks.
func (m Marks) Total() int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

// MarksFromSlice converts a dynamic slice into Marks.
// Returns an INVALID_INPUT error if the slice does not hold exactly MarkCount values.
func MarksFromSlice(values []int) (Marks, error) {
	var m Marks
	if len(values) != MarkCount {
		return m, NewInvalidInputError(fmt.Sprintf("expected %d marks, got %d", MarkCount, len(values)))
	}
	copy(m[:], values)
	return m, nil
}

// Record is one student's name, roll number and marks.
type Record struct {
	Name  string `json:"name" yaml:"name"`
	Roll  int    `json:"roll" yaml:"roll"`
	Marks Marks  `json:"marks" yaml:"marks"`
}

// New builds a Record with a normalized name.
func New(name string, roll int, marks Marks) Record {
	return Record{
		Name:  NormalizeName(name),
		Roll:  roll,
		Marks: marks,
	}
}

// NormalizeName trims surrounding whitespace and converts the name to NFC,
// so visually identical names typed with different input methods compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Slot is one logical position in a store.
// A vacant slot has Filled == false and a zero Record.
type Slot struct {
	Index  int    `json:"index"`
	Record Record `json:"record"`
	Filled bool   `json:"filled"`
}
