// Package record defines the student record model shared by every store
// backend and the typed errors those backends return.
//
// A Record is a name, a caller-supplied roll number and exactly MarkCount
// marks. Marks is a fixed-length array so the length is checked by the
// compiler rather than at runtime.
//
// Roll numbers are not required to be unique. Stores that enforce
// uniqueness report ErrCodeDuplicateRoll.
package record
