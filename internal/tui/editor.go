package tui

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	"github.com/dshills/drawboard/internal/board"
)

const helpText = "arrows move | type to color | Bksp erase | ^Z undo | Esc quit"

// Editor is a full-screen board driver. It repaints on every board
// notification and turns key events into board operations.
//
// Editor state is owned by the goroutine calling Run; HandleEvent and
// Update must not be called concurrently with it.
type Editor struct {
	board   *board.Board
	backend Backend

	grid       board.Grid
	row, col   int
	status     string
	showStatus bool
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithStatusLine enables or disables the status line below the grid.
func WithStatusLine(enabled bool) EditorOption {
	return func(e *Editor) {
		e.showStatus = enabled
	}
}

// NewEditor creates an editor drawing b on backend.
func NewEditor(b *board.Board, backend Backend, opts ...EditorOption) *Editor {
	e := &Editor{
		board:      b,
		backend:    backend,
		grid:       b.Grid(),
		status:     helpText,
		showStatus: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cursor returns the current cursor position.
func (e *Editor) Cursor() (row, col int) {
	return e.row, e.col
}

// Status returns the current status line text.
func (e *Editor) Status() string {
	return e.status
}

// Update records the new grid and repaints. Implements board.Observer.
func (e *Editor) Update(grid board.Grid) error {
	e.grid = grid
	e.draw()
	return nil
}

// Run initializes the backend, subscribes to the board and processes
// events until a quit key is pressed or ctx is done. A quit key returns
// nil; cancellation returns ctx.Err().
func (e *Editor) Run(ctx context.Context) error {
	if err := e.backend.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer e.backend.Shutdown()

	sub := e.board.RegisterObserver(e)
	defer e.board.Unsubscribe(sub)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			e.backend.Interrupt()
		case <-done:
		}
	}()

	e.grid = e.board.Grid()
	e.draw()

	for {
		ev := e.backend.PollEvent()
		if ev.Type == EventInterrupt {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		if e.HandleEvent(ev) {
			return nil
		}
	}
}

// HandleEvent applies a single event and reports whether the editor
// should quit.
func (e *Editor) HandleEvent(ev Event) (quit bool) {
	switch ev.Type {
	case EventResize:
		e.backend.Clear()
		e.draw()
		return false
	case EventKey:
	default:
		return false
	}

	switch ev.Key {
	case KeyEscape, KeyCtrlC, KeyCtrlQ:
		return true
	case KeyUp:
		e.move(-1, 0)
	case KeyDown:
		e.move(1, 0)
	case KeyLeft:
		e.move(0, -1)
	case KeyRight:
		e.move(0, 1)
	case KeyHome:
		e.col = 0
		e.draw()
	case KeyEnd:
		e.col = e.grid.Size() - 1
		e.draw()
	case KeyBackspace, KeyDelete:
		e.apply(e.board.EraseCell(e.row, e.col), fmt.Sprintf("erased (%d, %d)", e.row, e.col))
	case KeyCtrlZ:
		e.apply(e.board.Undo(), "undone")
	case KeyRune:
		if ev.Rune == 0 || !unicode.IsPrint(ev.Rune) {
			return false
		}
		e.apply(e.board.ColorCell(e.row, e.col, ev.Rune),
			fmt.Sprintf("colored (%d, %d) with %q", e.row, e.col, ev.Rune))
	}
	return false
}

// apply sets the status from the outcome of a board operation and
// repaints. A successful operation has already repainted through Update.
func (e *Editor) apply(err error, ok string) {
	switch {
	case err == nil:
		e.status = ok
	case errors.Is(err, board.ErrEmptyHistory):
		e.status = "No actions to undo."
	case errors.Is(err, board.ErrInvalidCoordinate):
		e.status = "Invalid cell coordinates!"
	default:
		e.status = err.Error()
	}
	e.draw()
}

func (e *Editor) move(dr, dc int) {
	size := e.grid.Size()
	e.row = clamp(e.row+dr, 0, size-1)
	e.col = clamp(e.col+dc, 0, size-1)
	e.draw()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// draw paints cell (r, c) at x=2c, y=r with the cursor cell reversed and
// the status line two rows below the grid.
func (e *Editor) draw() {
	size := e.grid.Size()
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			e.backend.SetCell(c*2, r, Cell{
				Rune:    e.grid.At(r, c),
				Reverse: r == e.row && c == e.col,
			})
			e.backend.SetCell(c*2+1, r, Cell{Rune: ' '})
		}
	}

	if e.showStatus {
		width, _ := e.backend.Size()
		y := size + 1
		text := []rune(e.status)
		for x := 0; x < width; x++ {
			ch := ' '
			if x < len(text) {
				ch = text[x]
			}
			e.backend.SetCell(x, y, Cell{Rune: ch, Bold: true})
		}
	}

	e.backend.Show()
}
