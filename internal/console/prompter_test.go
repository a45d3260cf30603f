package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rollbook/internal/record"
)

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewPrompter(strings.NewReader(input), out, nil), out
}

func TestLine_ReadsWholeLine(t *testing.T) {
	p, out := newTestPrompter("Asha Rao\r\nnext\n")

	line, err := p.Line("Name: ")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", line)
	assert.Equal(t, "Name: ", out.String())

	line, err = p.Line("Again: ")
	require.NoError(t, err)
	assert.Equal(t, "next", line)
}

func TestLine_EmptyLineAllowed(t *testing.T) {
	p, _ := newTestPrompter("\n")
	line, err := p.Line("Name: ")
	require.NoError(t, err)
	assert.Equal(t, "", line)
}

func TestLine_InputClosed(t *testing.T) {
	p, _ := newTestPrompter("")
	_, err := p.Line("Name: ")
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestLine_ReadError(t *testing.T) {
	boom := errors.New("boom")
	p := NewPrompter(iotest.ErrReader(boom), &bytes.Buffer{}, nil)
	_, err := p.Line("Name: ")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInputClosed)
}

func TestInt_Valid(t *testing.T) {
	p, _ := newTestPrompter("  42 \n-7\n")

	n, err := p.Int("Roll: ")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	n, err = p.Int("Roll: ")
	require.NoError(t, err)
	assert.Equal(t, -7, n)
}

func TestInt_RepromptsOnMalformedInput(t *testing.T) {
	p, out := newTestPrompter("abc\n\n4.5\n12\n")

	n, err := p.Int("Roll: ")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	want := "Roll: " + InvalidNumberMessage + "\n" +
		"Roll: " + InvalidNumberMessage + "\n" +
		"Roll: " + InvalidNumberMessage + "\n" +
		"Roll: "
	assert.Equal(t, want, out.String())
}

func TestInt_InputClosedWhileReprompting(t *testing.T) {
	p, _ := newTestPrompter("abc\n")
	_, err := p.Int("Roll: ")
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestPositiveInt(t *testing.T) {
	p, out := newTestPrompter("0\n-2\nthree\n11\n3\n")

	n, err := p.PositiveInt("Count: ", 10)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Equal(t, 2, strings.Count(out.String(), InvalidPositiveMessage))
	assert.Equal(t, 1, strings.Count(out.String(), InvalidNumberMessage))
	assert.Equal(t, 1, strings.Count(out.String(), "Invalid input: please enter a number no greater than 10.\n"))
	assert.Equal(t, 5, strings.Count(out.String(), "Count: "))
}

func TestPositiveInt_AcceptsMaximum(t *testing.T) {
	p, _ := newTestPrompter("10\n")
	n, err := p.PositiveInt("Count: ", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestLine_OverlongLineIsDiscarded(t *testing.T) {
	long := strings.Repeat("x", 70000)
	p, out := newTestPrompter(long + "\nAsha\n")

	line, err := p.Line("Name: ")
	require.NoError(t, err)
	assert.Equal(t, "Asha", line)
	assert.Equal(t, "Name: "+LineTooLongMessage+"\nName: ", out.String())
}

func TestLine_LengthBoundary(t *testing.T) {
	exact := strings.Repeat("a", MaxLineBytes)
	over := strings.Repeat("b", MaxLineBytes+1)
	p, out := newTestPrompter(exact + "\r\n" + over + "\nok\n")

	line, err := p.Line("Name: ")
	require.NoError(t, err)
	assert.Equal(t, exact, line)

	line, err = p.Line("Name: ")
	require.NoError(t, err)
	assert.Equal(t, "ok", line)
	assert.Equal(t, 1, strings.Count(out.String(), LineTooLongMessage))
}

func TestLine_OverlongFinalLineThenClosed(t *testing.T) {
	p, _ := newTestPrompter(strings.Repeat("x", 70000))
	_, err := p.Line("Name: ")
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestLine_FinalLineWithoutNewline(t *testing.T) {
	p, _ := newTestPrompter("Asha")
	line, err := p.Line("Name: ")
	require.NoError(t, err)
	assert.Equal(t, "Asha", line)

	_, err = p.Line("Name: ")
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestInt_OverlongLineReprompts(t *testing.T) {
	p, out := newTestPrompter(strings.Repeat("9", 70000) + "\n42\n")
	n, err := p.Int("Roll: ")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.Contains(t, out.String(), LineTooLongMessage)
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{" 15\t", 15, false},
		{"+3", 3, false},
		{"-20", -20, false},
		{"", 0, true},
		{"   ", 0, true},
		{"1e3", 0, true},
		{"12abc", 0, true},
		{"99999999999999999999999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInt(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, record.IsInvalidInput(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
