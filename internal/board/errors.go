package board

import (
	"errors"
	"fmt"
)

// Common errors for board operations.
var (
	// ErrInvalidCoordinate indicates a row or column outside [0, size).
	ErrInvalidCoordinate = errors.New("invalid cell coordinates")

	// ErrEmptyHistory indicates Undo was called with no recorded edits.
	ErrEmptyHistory = errors.New("no actions to undo")

	// ErrInvalidSize indicates a non-positive board size.
	ErrInvalidSize = errors.New("invalid board size")
)

// CoordinateError reports a rejected cell access.
type CoordinateError struct {
	Op   string // "color", "erase" or "get"
	Row  int
	Col  int
	Size int
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("%s (%d, %d): %v (board size %d)", e.Op, e.Row, e.Col, ErrInvalidCoordinate, e.Size)
}

func (e *CoordinateError) Unwrap() error {
	return ErrInvalidCoordinate
}

// SizeError reports a rejected board size.
type SizeError struct {
	Size int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%v: %d (must be positive)", ErrInvalidSize, e.Size)
}

func (e *SizeError) Unwrap() error {
	return ErrInvalidSize
}

// ObserverError wraps a failure raised by an observer during notification.
// Panics are recovered and reported with Panicked set.
type ObserverError struct {
	Subscription Subscription
	Err          error
	Panicked     bool
	PanicValue   any
	Stack        []byte
}

func (e *ObserverError) Error() string {
	if e.Panicked {
		return fmt.Sprintf("observer %s panicked: %v", e.Subscription, e.PanicValue)
	}
	return fmt.Sprintf("observer %s: %v", e.Subscription, e.Err)
}

func (e *ObserverError) Unwrap() error {
	return e.Err
}
