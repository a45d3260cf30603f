// Package console reads operator input one line at a time.
//
// Every prompt consumes exactly one line. Numeric prompts re-prompt on
// malformed input instead of failing, so a typo never ends a session.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/rollbook/internal/record"
)

// ErrInputClosed is returned when input ends before a prompt is answered.
var ErrInputClosed = errors.New("input closed")

// InvalidNumberMessage is printed when a numeric prompt receives non-numeric input.
const InvalidNumberMessage = "Invalid input: please enter a whole number."

// InvalidPositiveMessage is printed when a positive prompt receives a value below 1.
const InvalidPositiveMessage = "Invalid input: please enter a number greater than zero."

// invalidTooLargeFormat is printed when a bounded prompt receives a value above its maximum.
const invalidTooLargeFormat = "Invalid input: please enter a number no greater than %d.\n"

// LineTooLongMessage is printed when an input line exceeds MaxLineBytes.
const LineTooLongMessage = "Invalid input: line is too long."

// MaxLineBytes is the longest accepted input line, excluding the line ending.
// Longer lines are discarded and the prompt is repeated.
const MaxLineBytes = 4096

// Prompter writes prompts to an output stream and reads answers from an input stream.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	logger *slog.Logger
}

// NewPrompter creates a Prompter. A nil logger falls back to slog.Default().
func NewPrompter(in io.Reader, out io.Writer, logger *slog.Logger) *Prompter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prompter{
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
	}
}

// Out returns the writer prompts are written to.
func (p *Prompter) Out() io.Writer {
	return p.out
}

// Line prints label and returns the next input line without its line ending.
// A line longer than MaxLineBytes is discarded and the prompt repeated.
func (p *Prompter) Line(label string) (string, error) {
	for {
		fmt.Fprint(p.out, label)
		line, tooLong, err := p.readLine()
		if err != nil {
			return "", err
		}
		if !tooLong {
			return line, nil
		}

		p.logger.Debug("rejected input", "prompt", strings.TrimSpace(label), "error", "line too long")
		fmt.Fprintln(p.out, LineTooLongMessage)
	}
}

// readLine reads through the next line ending. Bytes past MaxLineBytes are
// consumed but not kept, and tooLong reports that the line was cut.
// A final line without a line ending is returned as a normal line.
func (p *Prompter) readLine() (line string, tooLong bool, err error) {
	var buf []byte
	read := false

	for {
		chunk, readErr := p.in.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
			if !tooLong {
				if len(buf)+len(chunk) > MaxLineBytes+2 {
					tooLong = true
					buf = nil
				} else {
					buf = append(buf, chunk...)
				}
			}
		}

		switch {
		case readErr == nil:
		case errors.Is(readErr, bufio.ErrBufferFull):
			continue
		case errors.Is(readErr, io.EOF):
			if !read {
				return "", false, ErrInputClosed
			}
		default:
			return "", false, fmt.Errorf("read input: %w", readErr)
		}
		break
	}

	line = strings.TrimSuffix(string(buf), "\n")
	line = strings.TrimSuffix(line, "\r")
	if len(line) > MaxLineBytes {
		return "", true, nil
	}
	return line, tooLong, nil
}

// Int prints label and reads a base-10 integer, re-prompting until one is entered.
func (p *Prompter) Int(label string) (int, error) {
	for {
		line, err := p.Line(label)
		if err != nil {
			return 0, err
		}

		n, err := ParseInt(line)
		if err == nil {
			return n, nil
		}

		p.logger.Debug("rejected input", "prompt", strings.TrimSpace(label), "input", line, "error", err)
		fmt.Fprintln(p.out, InvalidNumberMessage)
	}
}

// PositiveInt behaves like Int but also re-prompts on values below 1 or above max.
func (p *Prompter) PositiveInt(label string, max int) (int, error) {
	for {
		n, err := p.Int(label)
		if err != nil {
			return 0, err
		}

		switch {
		case n < 1:
			fmt.Fprintln(p.out, InvalidPositiveMessage)
		case n > max:
			fmt.Fprintf(p.out, invalidTooLargeFormat, max)
		default:
			return n, nil
		}
		p.logger.Debug("rejected input", "prompt", strings.TrimSpace(label), "value", n, "max", max)
	}
}

// ParseInt parses a line as a base-10 integer, ignoring surrounding whitespace.
// Returns an INVALID_INPUT error for anything else.
func ParseInt(line string) (int, error) {
	s := strings.TrimSpace(line)
	if s == "" {
		return 0, record.NewInvalidInputError("expected a whole number, got empty input")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, record.NewInvalidInputError(fmt.Sprintf("expected a whole number, got %q", s))
	}
	return n, nil
}
