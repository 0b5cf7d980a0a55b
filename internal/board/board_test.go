package board

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestBoard(t *testing.T, size int, opts ...Option) *Board {
	t.Helper()
	b, err := New(size, opts...)
	if err != nil {
		t.Fatalf("New(%d) error = %v", size, err)
	}
	return b
}

func TestNew(t *testing.T) {
	b := newTestBoard(t, 3)

	if b.Size() != 3 {
		t.Errorf("Size() = %d, want 3", b.Size())
	}
	g := b.Grid()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if got := g.At(r, c); got != Empty {
				t.Errorf("cell (%d,%d) = %q, want %q", r, c, got, Empty)
			}
		}
	}
	if b.CanUndo() {
		t.Error("fresh board should have nothing to undo")
	}
}

func TestNew_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, -100} {
		b, err := New(size)
		if b != nil {
			t.Errorf("New(%d) returned a board", size)
		}
		if !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%d) error = %v, want ErrInvalidSize", size, err)
		}
		var se *SizeError
		if !errors.As(err, &se) || se.Size != size {
			t.Errorf("New(%d) error = %#v, want *SizeError{Size: %d}", size, err, size)
		}
	}
}

func TestBoard_Scenario(t *testing.T) {
	b := newTestBoard(t, 3)

	if err := b.ColorCell(0, 0, 'X'); err != nil {
		t.Fatalf("ColorCell(0,0,'X') error = %v", err)
	}
	if got := b.Grid().At(0, 0); got != 'X' {
		t.Errorf("grid[0][0] = %q, want 'X'", got)
	}

	if err := b.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if got := b.Grid().At(0, 0); got != Empty {
		t.Errorf("grid[0][0] after undo = %q, want %q", got, Empty)
	}

	if err := b.ColorCell(1, 2, 'Y'); err != nil {
		t.Fatalf("ColorCell(1,2,'Y') error = %v", err)
	}
	if got := b.Grid().At(1, 2); got != 'Y' {
		t.Errorf("grid[1][2] = %q, want 'Y'", got)
	}
	if err := b.EraseCell(1, 2); err != nil {
		t.Fatalf("EraseCell(1,2) error = %v", err)
	}
	if got := b.Grid().At(1, 2); got != Empty {
		t.Errorf("grid[1][2] after erase = %q, want %q", got, Empty)
	}

	if err := b.ColorCell(-1, 1, 'Z'); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("ColorCell(-1,1) error = %v, want ErrInvalidCoordinate", err)
	}

	fresh := newTestBoard(t, 3)
	if err := fresh.Undo(); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("Undo() on fresh board error = %v, want ErrEmptyHistory", err)
	}
}

func TestBoard_RoundTrip(t *testing.T) {
	b := newTestBoard(t, 4)
	_ = b.ColorCell(2, 1, 'Q')

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			for _, v := range []rune{'A', '#', Empty, 'é'} {
				before := b.Grid()
				if err := b.ColorCell(r, c, v); err != nil {
					t.Fatalf("ColorCell(%d,%d,%q) error = %v", r, c, v, err)
				}
				if err := b.Undo(); err != nil {
					t.Fatalf("Undo() error = %v", err)
				}
				if after := b.Grid(); !after.Equal(before) {
					t.Fatalf("color (%d,%d,%q) + undo changed grid:\n%s\nwant:\n%s", r, c, v, after, before)
				}
			}
		}
	}
}

func TestBoard_BoundsRejection(t *testing.T) {
	tests := []struct {
		row, col int
	}{
		{-1, 0},
		{0, -1},
		{3, 0},
		{0, 3},
		{2, 4},
		{-5, -5},
		{100, 1},
	}

	b := newTestBoard(t, 3)
	_ = b.ColorCell(1, 1, 'M')

	var notified int
	b.RegisterObserver(ObserverFunc(func(Grid) error {
		notified++
		return nil
	}))

	before := b.Grid()
	undoBefore := b.UndoCount()

	for _, tt := range tests {
		err := b.ColorCell(tt.row, tt.col, 'Z')
		if !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("ColorCell(%d,%d) error = %v, want ErrInvalidCoordinate", tt.row, tt.col, err)
		}
		var ce *CoordinateError
		if !errors.As(err, &ce) || ce.Op != "color" || ce.Row != tt.row || ce.Col != tt.col || ce.Size != 3 {
			t.Errorf("ColorCell(%d,%d) error = %#v, want matching *CoordinateError", tt.row, tt.col, err)
		}

		err = b.EraseCell(tt.row, tt.col)
		if !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("EraseCell(%d,%d) error = %v, want ErrInvalidCoordinate", tt.row, tt.col, err)
		}
	}

	if !b.Grid().Equal(before) {
		t.Error("rejected mutations changed the grid")
	}
	if b.UndoCount() != undoBefore {
		t.Errorf("UndoCount() = %d, want %d", b.UndoCount(), undoBefore)
	}
	if notified != 0 {
		t.Errorf("observer notified %d times for rejected mutations", notified)
	}
}

func TestBoard_EmptyUndoAfterAllUndone(t *testing.T) {
	b := newTestBoard(t, 2)
	_ = b.ColorCell(0, 0, 'a')
	_ = b.EraseCell(0, 0)

	for i := 0; i < 2; i++ {
		if err := b.Undo(); err != nil {
			t.Fatalf("Undo() #%d error = %v", i+1, err)
		}
	}

	var notified bool
	b.RegisterObserver(ObserverFunc(func(Grid) error {
		notified = true
		return nil
	}))

	if err := b.Undo(); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("Undo() error = %v, want ErrEmptyHistory", err)
	}
	if notified {
		t.Error("failed undo notified observers")
	}
}

func TestBoard_LIFO(t *testing.T) {
	b := newTestBoard(t, 3)
	initial := b.Grid()

	_ = b.ColorCell(0, 0, '1')
	afterE1 := b.Grid()
	_ = b.ColorCell(0, 0, '2')
	afterE2 := b.Grid()
	_ = b.ColorCell(2, 2, '3')

	want := []Grid{afterE2, afterE1, initial}
	for i, w := range want {
		if err := b.Undo(); err != nil {
			t.Fatalf("Undo() #%d error = %v", i+1, err)
		}
		if got := b.Grid(); !got.Equal(w) {
			t.Errorf("after undo #%d grid =\n%s\nwant:\n%s", i+1, got, w)
		}
	}

	if b.CanUndo() {
		t.Error("history should be empty after undoing every edit")
	}
}

func TestBoard_EraseIsUndoable(t *testing.T) {
	b := newTestBoard(t, 3)
	_ = b.ColorCell(1, 1, 'K')
	_ = b.EraseCell(1, 1)

	if err := b.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if got := b.Grid().At(1, 1); got != 'K' {
		t.Errorf("grid[1][1] = %q, want 'K'", got)
	}
}

func TestBoard_GridIsSnapshot(t *testing.T) {
	b := newTestBoard(t, 2)
	_ = b.ColorCell(0, 1, 'x')

	g := b.Grid()
	rows := g.Rows()
	rows[0][1] = 'H'

	if got := b.Grid().At(0, 1); got != 'x' {
		t.Errorf("board cell = %q after mutating a snapshot copy, want 'x'", got)
	}

	_ = b.ColorCell(0, 1, 'y')
	if got := g.At(0, 1); got != 'x' {
		t.Errorf("old snapshot changed to %q, want 'x'", got)
	}
}

func TestBoard_Cell(t *testing.T) {
	b := newTestBoard(t, 2)
	_ = b.ColorCell(1, 0, '*')

	got, err := b.Cell(1, 0)
	if err != nil || got != '*' {
		t.Errorf("Cell(1,0) = %q, %v; want '*', nil", got, err)
	}

	_, err = b.Cell(2, 0)
	var ce *CoordinateError
	if !errors.As(err, &ce) || ce.Op != "get" {
		t.Errorf("Cell(2,0) error = %v, want *CoordinateError{Op: get}", err)
	}
}

func TestBoard_HistoryTimestamps(t *testing.T) {
	stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	b := newTestBoard(t, 2, WithClock(func() time.Time { return stamp }))

	_ = b.EraseCell(0, 0)

	rec, ok := b.history.Peek()
	if !ok {
		t.Fatal("history is empty after EraseCell")
	}
	if !rec.Time.Equal(stamp) || rec.Kind != EditErase || rec.Previous != Empty {
		t.Errorf("record = %+v, want erase of %q at %v", rec, Empty, stamp)
	}
}

func TestBoard_ConcurrentMutations(t *testing.T) {
	const (
		size       = 4
		goroutines = 50
		opsEach    = 100
	)
	b := newTestBoard(t, size)

	var calls atomic.Int64
	b.RegisterObserver(ObserverFunc(func(g Grid) error {
		calls.Add(1)
		if g.Size() != size {
			t.Errorf("observer got size %d, want %d", g.Size(), size)
		}
		return nil
	}))

	var (
		succeeded atomic.Int64
		wrote     atomic.Int64
		undone    atomic.Int64
		wg        sync.WaitGroup
	)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < opsEach; i++ {
				row, col := (g+i)%size, (g*7+i)%size
				var err error
				switch i % 3 {
				case 0:
					err = b.ColorCell(row, col, rune('a'+g%26))
					if err == nil {
						wrote.Add(1)
					}
				case 1:
					err = b.EraseCell(row, col)
					if err == nil {
						wrote.Add(1)
					}
				default:
					err = b.Undo()
					if err == nil {
						undone.Add(1)
					} else if !errors.Is(err, ErrEmptyHistory) {
						t.Errorf("Undo() error = %v", err)
					}
				}
				if err == nil {
					succeeded.Add(1)
				}
			}
		}(g)
	}
	wg.Wait()

	if got, want := calls.Load(), succeeded.Load(); got != want {
		t.Errorf("observer calls = %d, want %d successful operations", got, want)
	}
	if got, want := int64(b.UndoCount()), wrote.Load()-undone.Load(); got != want {
		t.Errorf("UndoCount() = %d, want %d", got, want)
	}

	for b.CanUndo() {
		if err := b.Undo(); err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
	}
	if !b.Grid().Equal(newGrid(size)) {
		t.Errorf("grid after undoing everything:\n%s", b.Grid())
	}
}
