package board

import (
	"sync"
	"time"
)

// Board is a square character grid with single-step undo and synchronous
// change notification.
type Board struct {
	mu sync.Mutex

	size    int
	grid    Grid
	history *History

	observers registry
	onFailure FailureHandler

	now func() time.Time
}

// Option configures a Board.
type Option func(*Board)

// WithFailureHandler sets the handler that receives observer failures.
func WithFailureHandler(h FailureHandler) Option {
	return func(b *Board) {
		b.onFailure = h
	}
}

// WithClock sets the time source used to stamp edit records.
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates a size×size board filled with Empty.
// Returns a *SizeError matching ErrInvalidSize if size is not positive.
func New(size int, opts ...Option) (*Board, error) {
	if size <= 0 {
		return nil, &SizeError{Size: size}
	}

	b := &Board{
		size:    size,
		grid:    newGrid(size),
		history: NewHistory(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Size returns the number of rows (and columns).
func (b *Board) Size() int {
	return b.size
}

// ColorCell writes value into (row, col).
// Invalid coordinates return a *CoordinateError and leave the board untouched.
func (b *Board) ColorCell(row, col int, value rune) error {
	return b.write("color", EditColor, row, col, value)
}

// EraseCell resets (row, col) to Empty. It is recorded and undone like ColorCell.
func (b *Board) EraseCell(row, col int) error {
	return b.write("erase", EditErase, row, col, Empty)
}

// write records the prior value, overwrites the cell and notifies observers.
func (b *Board) write(op string, kind EditKind, row, col int, value rune) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.grid.Contains(row, col) {
		return &CoordinateError{Op: op, Row: row, Col: col, Size: b.size}
	}

	b.history.Push(EditRecord{
		Row:      row,
		Col:      col,
		Previous: b.grid.At(row, col),
		Kind:     kind,
		Time:     b.now(),
	})
	b.grid.set(row, col, value)

	b.notifyLocked()
	return nil
}

// Undo restores the cell changed by the most recent mutation.
// Returns ErrEmptyHistory if nothing has been recorded.
func (b *Board) Undo() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, err := b.history.Pop()
	if err != nil {
		return err
	}
	b.grid.set(rec.Row, rec.Col, rec.Previous)

	b.notifyLocked()
	return nil
}

// Grid returns a snapshot of the current cells.
func (b *Board) Grid() Grid {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid.clone()
}

// Cell returns the rune at (row, col).
func (b *Board) Cell(row, col int) (rune, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.grid.Contains(row, col) {
		return 0, &CoordinateError{Op: "get", Row: row, Col: col, Size: b.size}
	}
	return b.grid.At(row, col), nil
}

// CanUndo returns true if Undo would succeed.
func (b *Board) CanUndo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.history.IsEmpty()
}

// UndoCount returns the number of recorded edits.
func (b *Board) UndoCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.Len()
}

// RegisterObserver subscribes o to change notifications.
// Registering the same observer twice delivers every notification twice.
func (b *Board) RegisterObserver(o Observer) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.observers.add(o)
}

// RemoveObserver removes one registration of o.
// Returns false, and does nothing, if o is not registered. Observers of
// incomparable types (ObserverFunc) cannot be matched; use Unsubscribe.
func (b *Board) RemoveObserver(o Observer) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.observers.removeObserver(o)
}

// Unsubscribe removes the registration identified by sub.
func (b *Board) Unsubscribe(sub Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.observers.removeSubscription(sub)
}

// ObserverCount returns the number of registrations.
func (b *Board) ObserverCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.observers.len()
}

// notifyLocked fans the current state out to observers.
func (b *Board) notifyLocked() {
	if b.observers.len() == 0 {
		return
	}
	b.observers.notify(b.grid.clone(), b.onFailure)
}
