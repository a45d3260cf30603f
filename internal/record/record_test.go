package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NormalizesName(t *testing.T) {
	// "e" followed by a combining acute accent composes to a single rune under NFC.
	rec := New("  Rene\u0301e ", 7, Marks{1, 2, 3, 4})

	assert.Equal(t, "Ren\u00e9e", rec.Name)
	assert.Equal(t, 7, rec.Roll)
	assert.Equal(t, Marks{1, 2, 3, 4}, rec.Marks)
}

func TestNew_EmptyNameAllowed(t *testing.T) {
	rec := New("   ", 1, Marks{})
	assert.Equal(t, "", rec.Name)
}

func TestMarksTotal(t *testing.T) {
	assert.Equal(t, 0, Marks{}.Total())
	assert.Equal(t, 300, Marks{70, 80, 90, 60}.Total())
	assert.Equal(t, -2, Marks{-1, -1, 0, 0}.Total())
}

func TestMarksFromSlice(t *testing.T) {
	m, err := MarksFromSlice([]int{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, Marks{1, 2, 3, 4}, m)

	_, err = MarksFromSlice([]int{1, 2, 3})
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))
	assert.Contains(t, err.Error(), "expected 4 marks, got 3")

	_, err = MarksFromSlice(nil)
	assert.True(t, IsInvalidInput(err))
}

func TestMarksIsValueType(t *testing.T) {
	a := Marks{1, 2, 3, 4}
	b := a
	b[0] = 99
	assert.Equal(t, 1, a[0])
}
