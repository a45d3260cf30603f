package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/rollbook/internal/console"
	"github.com/roach88/rollbook/internal/record"
	"github.com/roach88/rollbook/internal/store"
)

// Choice is a menu selection.
type Choice int

// Menu choices, numbered as shown to the operator.
const (
	ChoiceAdd Choice = iota + 1
	ChoiceDisplayAll
	ChoiceDisplayOne
	ChoiceUpdate
	ChoiceDelete
	ChoiceExit
)

// Operator-facing messages.
const (
	MenuText = "\n" +
		"1. Add student data\n" +
		"2. Display all student data\n" +
		"3. Display student data by roll number\n" +
		"4. Update the existing student data\n" +
		"5. Delete the student data if necessary\n" +
		"6. Exit program\n"

	CapacityPrompt      = "Enter the number of students to add: "
	ChoicePrompt        = "Enter your choice: "
	InvalidChoiceText   = "Invalid choice! Please try again."
	ExitText            = "Exiting program..."
	UpdatedText         = "Student data updated successfully."
	DeletedText         = "Student data deleted successfully."
	EmptyStoreText      = "No student data to display."
	notFoundFormat      = "No student found with roll number %d\n"
	duplicateRollFormat = "Roll number %d is already used by student %d. Please enter this student again.\n"
)

// Options configures a Session.
type Options struct {
	// ID identifies the session in log output. Defaults to a new UUIDv7.
	ID string

	// Logger receives structured session events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Session owns one record store for the lifetime of a menu loop.
type Session struct {
	store  store.RecordStore
	prompt *console.Prompter
	out    io.Writer
	logger *slog.Logger
}

// New creates a Session that drives st with operator input from prompt.
func New(st store.RecordStore, prompt *console.Prompter, opts Options) *Session {
	id := opts.ID
	if id == "" {
		id = NewID()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		store:  st,
		prompt: prompt,
		out:    prompt.Out(),
		logger: logger.With("session_id", id),
	}
}

// NewID returns a time-sortable UUIDv7 session identifier.
// Panics if UUID generation fails.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// PromptCapacity asks the operator how many students the store should hold,
// re-asking until the answer is between 1 and store.MaxCapacity.
func PromptCapacity(p *console.Prompter) (int, error) {
	return p.PositiveInt(CapacityPrompt, store.MaxCapacity)
}

// Run shows the menu and dispatches choices until the operator exits.
// Returns nil on exit, console.ErrInputClosed if input ends first, or
// the context error if ctx is cancelled between prompts.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("session started", "capacity", s.store.Cap())

	for {
		if err := ctx.Err(); err != nil {
			s.logger.Info("session cancelled", "error", err)
			return err
		}

		fmt.Fprint(s.out, MenuText)
		n, err := s.prompt.Int(ChoicePrompt)
		if err != nil {
			return err
		}

		exit, err := s.Dispatch(ctx, Choice(n))
		if err != nil {
			s.logger.Error("session failed", "choice", n, "error", err)
			return err
		}
		if exit {
			s.logger.Info("session ended")
			return nil
		}
	}
}

// Dispatch runs a single menu transition.
// exit is true only for ChoiceExit.
func (s *Session) Dispatch(ctx context.Context, choice Choice) (exit bool, err error) {
	s.logger.Debug("menu choice", "choice", int(choice))

	switch choice {
	case ChoiceAdd:
		return false, s.addAll(ctx)
	case ChoiceDisplayAll:
		return false, s.displayAll(ctx)
	case ChoiceDisplayOne:
		return false, s.displayOne(ctx)
	case ChoiceUpdate:
		return false, s.update(ctx)
	case ChoiceDelete:
		return false, s.delete(ctx)
	case ChoiceExit:
		fmt.Fprintln(s.out, ExitText)
		return true, nil
	default:
		s.logger.Debug("invalid choice", "error", record.NewInvalidChoiceError(int(choice)))
		fmt.Fprintln(s.out, InvalidChoiceText)
		return false, nil
	}
}

func (s *Session) addAll(ctx context.Context) error {
	n, err := s.store.Len(ctx)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	for i := 0; i < n; i++ {
		fmt.Fprintf(s.out, "Enter data for student %d: ", i+1)
		if err := s.addOne(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// addOne reads a record for slot i, asking again while its roll is taken.
func (s *Session) addOne(ctx context.Context, i int) error {
	for {
		rec, err := s.readRecord()
		if err != nil {
			return err
		}

		err = s.store.Set(ctx, i, rec)
		if err == nil {
			s.logger.Debug("record stored", "slot", i, "roll", rec.Roll)
			return nil
		}

		var re *record.Error
		if errors.As(err, &re) && re.Code == record.ErrCodeDuplicateRoll {
			s.logger.Debug("duplicate roll rejected", "slot", i, "roll", rec.Roll, "held_by", re.Slot)
			fmt.Fprintf(s.out, duplicateRollFormat, rec.Roll, re.Slot+1)
			continue
		}
		return fmt.Errorf("add student %d: %w", i+1, err)
	}
}

func (s *Session) displayAll(ctx context.Context) error {
	slots, err := s.store.Slots(ctx)
	if err != nil {
		return fmt.Errorf("display: %w", err)
	}

	if len(slots) == 0 {
		fmt.Fprintln(s.out, EmptyStoreText)
		return nil
	}

	for _, slot := range slots {
		fmt.Fprintf(s.out, "Displaying data for student %d:\n", slot.Index+1)
		if !slot.Filled {
			fmt.Fprintf(s.out, "No data entered for student %d.\n", slot.Index+1)
			continue
		}
		s.printRecord(slot.Record)
	}
	return nil
}

func (s *Session) displayOne(ctx context.Context) error {
	roll, err := s.prompt.Int("Enter roll number to search for: ")
	if err != nil {
		return err
	}

	slot, err := s.store.FindByRoll(ctx, roll)
	if record.IsNotFound(err) {
		s.reportNotFound(roll)
		return nil
	}
	if err != nil {
		return fmt.Errorf("find: %w", err)
	}

	s.printRecord(slot.Record)
	return nil
}

func (s *Session) update(ctx context.Context) error {
	roll, err := s.prompt.Int("Enter roll number to update: ")
	if err != nil {
		return err
	}

	// The roll is resolved before prompting for replacement data.
	if _, err := s.store.FindByRoll(ctx, roll); err != nil {
		if record.IsNotFound(err) {
			s.reportNotFound(roll)
			return nil
		}
		return fmt.Errorf("update: %w", err)
	}

	name, err := s.prompt.Line("Enter new name: ")
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, "Enter new marks: ")
	marks, err := s.readMarks()
	if err != nil {
		return err
	}

	if err := s.store.UpdateByRoll(ctx, roll, name, marks); err != nil {
		if record.IsNotFound(err) {
			s.reportNotFound(roll)
			return nil
		}
		return fmt.Errorf("update: %w", err)
	}

	s.logger.Debug("record updated", "roll", roll)
	fmt.Fprintln(s.out, UpdatedText)
	return nil
}

func (s *Session) delete(ctx context.Context) error {
	roll, err := s.prompt.Int("Enter roll number to delete: ")
	if err != nil {
		return err
	}

	removed, err := s.store.DeleteByRoll(ctx, roll)
	if record.IsNotFound(err) {
		s.reportNotFound(roll)
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	s.logger.Debug("record deleted", "roll", roll, "slot", removed.Index)
	fmt.Fprintln(s.out, DeletedText)
	return nil
}

func (s *Session) readRecord() (record.Record, error) {
	name, err := s.prompt.Line("Enter the student name: ")
	if err != nil {
		return record.Record{}, err
	}
	roll, err := s.prompt.Int("Enter the student roll no: ")
	if err != nil {
		return record.Record{}, err
	}
	fmt.Fprint(s.out, "Enter the student marks: ")
	marks, err := s.readMarks()
	if err != nil {
		return record.Record{}, err
	}
	return record.New(name, roll, marks), nil
}

func (s *Session) readMarks() (record.Marks, error) {
	var marks record.Marks
	for k := range marks {
		v, err := s.prompt.Int(fmt.Sprintf("Enter marks %d: ", k+1))
		if err != nil {
			return record.Marks{}, err
		}
		marks[k] = v
	}
	return marks, nil
}

func (s *Session) printRecord(rec record.Record) {
	fmt.Fprintf(s.out, "Name of student is: %s\n", rec.Name)
	fmt.Fprintf(s.out, "Roll no of student is: %d\n", rec.Roll)
	fmt.Fprint(s.out, "Student marks are: ")
	for k, v := range rec.Marks {
		fmt.Fprintf(s.out, "Marks %d: %d\n", k+1, v)
	}
	fmt.Fprintf(s.out, "Total marks: %d\n", rec.Marks.Total())
}

func (s *Session) reportNotFound(roll int) {
	s.logger.Debug("roll not found", "error", record.NewNotFoundError(roll))
	fmt.Fprintf(s.out, notFoundFormat, roll)
}
