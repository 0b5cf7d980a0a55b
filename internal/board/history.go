package board

import "time"

// EditKind identifies the mutation an EditRecord reverses.
type EditKind int

const (
	// EditColor is a ColorCell mutation.
	EditColor EditKind = iota
	// EditErase is an EraseCell mutation.
	EditErase
)

// String returns the edit kind name.
func (k EditKind) String() string {
	switch k {
	case EditColor:
		return "color"
	case EditErase:
		return "erase"
	default:
		return "unknown"
	}
}

// EditRecord holds what is needed to reverse one mutation:
// the cell coordinates and the value it held before being overwritten.
type EditRecord struct {
	Row      int
	Col      int
	Previous rune
	Kind     EditKind
	Time     time.Time
}

// History is a LIFO stack of edit records with no capacity bound.
// History is not safe for concurrent use; Board guards it with its own lock.
type History struct {
	records []EditRecord
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Push records an edit on top of the stack.
func (h *History) Push(rec EditRecord) {
	h.records = append(h.records, rec)
}

// Pop removes and returns the most recent edit.
// Returns ErrEmptyHistory if there is nothing to undo.
func (h *History) Pop() (EditRecord, error) {
	if len(h.records) == 0 {
		return EditRecord{}, ErrEmptyHistory
	}

	rec := h.records[len(h.records)-1]
	h.records[len(h.records)-1] = EditRecord{}
	h.records = h.records[:len(h.records)-1]
	return rec, nil
}

// Peek returns the most recent edit without removing it.
func (h *History) Peek() (EditRecord, bool) {
	if len(h.records) == 0 {
		return EditRecord{}, false
	}
	return h.records[len(h.records)-1], true
}

// Len returns the number of recorded edits.
func (h *History) Len() int {
	return len(h.records)
}

// IsEmpty returns true if there is nothing to undo.
func (h *History) IsEmpty() bool {
	return len(h.records) == 0
}
