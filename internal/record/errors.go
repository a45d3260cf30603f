package record

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes record store errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates no filled slot holds the requested roll number.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidChoice indicates a menu selection outside the known choices.
	ErrCodeInvalidChoice ErrorCode = "INVALID_CHOICE"

	// ErrCodeInvalidInput indicates input that could not be parsed into the expected type.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeSlotOutOfRange indicates a slot index outside [0, logical size).
	ErrCodeSlotOutOfRange ErrorCode = "SLOT_OUT_OF_RANGE"

	// ErrCodeDuplicateRoll indicates a roll number already held by another slot.
	// Only returned by stores with unique rolls enabled.
	ErrCodeDuplicateRoll ErrorCode = "DUPLICATE_ROLL"
)

// Error is the error type returned by record stores and the session loop.
// Roll and Slot are set when they are meaningful for the code; otherwise they are -1.
type Error struct {
	Code    ErrorCode
	Message string
	Roll    int
	Slot    int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasCode(err error, code ErrorCode) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsNotFound reports whether err is a NOT_FOUND error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsInvalidChoice reports whether err is an INVALID_CHOICE error.
func IsInvalidChoice(err error) bool { return hasCode(err, ErrCodeInvalidChoice) }

// IsInvalidInput reports whether err is an INVALID_INPUT error.
func IsInvalidInput(err error) bool { return hasCode(err, ErrCodeInvalidInput) }

// IsSlotOutOfRange reports whether err is a SLOT_OUT_OF_RANGE error.
func IsSlotOutOfRange(err error) bool { return hasCode(err, ErrCodeSlotOutOfRange) }

// IsDuplicateRoll reports whether err is a DUPLICATE_ROLL error.
func IsDuplicateRoll(err error) bool { return hasCode(err, ErrCodeDuplicateRoll) }

// NewNotFoundError creates an Error for a missing roll number.
func NewNotFoundError(roll int) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("no student found with roll number %d", roll),
		Roll:    roll,
		Slot:    -1,
	}
}

// NewInvalidChoiceError creates an Error for an unknown menu choice.
func NewInvalidChoiceError(choice int) *Error {
	return &Error{
		Code:    ErrCodeInvalidChoice,
		Message: fmt.Sprintf("menu choice %d is not recognised", choice),
		Roll:    -1,
		Slot:    -1,
	}
}

// NewInvalidInputError creates an Error for malformed input.
func NewInvalidInputError(message string) *Error {
	return &Error{
		Code:    ErrCodeInvalidInput,
		Message: message,
		Roll:    -1,
		Slot:    -1,
	}
}

// NewSlotOutOfRangeError creates an Error for a slot index outside [0, size).
func NewSlotOutOfRangeError(slot, size int) *Error {
	return &Error{
		Code:    ErrCodeSlotOutOfRange,
		Message: fmt.Sprintf("slot %d is outside the store (size %d)", slot, size),
		Roll:    -1,
		Slot:    slot,
	}
}

// NewDuplicateRollError creates an Error for a roll number already held by heldBy.
func NewDuplicateRollError(roll, heldBy int) *Error {
	return &Error{
		Code:    ErrCodeDuplicateRoll,
		Message: fmt.Sprintf("roll number %d is already assigned to slot %d", roll, heldBy),
		Roll:    roll,
		Slot:    heldBy,
	}
}
