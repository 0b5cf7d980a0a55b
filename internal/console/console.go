// Package console provides the line-oriented menu driver for a board.
//
// The UI reads whitespace-separated commands from any io.Reader and writes
// prompts and the grid to any io.Writer, so it runs equally against a
// terminal or an in-memory script of keystrokes.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dshills/drawboard/internal/board"
)

// Menu choices.
const (
	ChoiceColor = 1
	ChoiceErase = 2
	ChoiceUndo  = 3
	ChoiceExit  = 4
)

// ErrInvalidSize is returned by ReadSize for unusable input.
var ErrInvalidSize = errors.New("invalid input given, please give a positive integer/valid input next time")

// UI is a menu-driven board driver. It is also a board.Observer that repaints
// the grid after every change.
type UI struct {
	board *board.Board
	in    *tokenReader
	out   io.Writer
}

// New creates a UI driving b.
func New(b *board.Board, in io.Reader, out io.Writer) *UI {
	return &UI{
		board: b,
		in:    newTokenReader(in),
		out:   out,
	}
}

// Update repaints the grid. Implements board.Observer.
func (u *UI) Update(grid board.Grid) error {
	return u.display(grid)
}

// Run executes the menu loop until the user exits, input ends, a
// non-numeric choice is entered, or ctx is done. Cancellation interrupts a
// pending read and returns ctx.Err().
func (u *UI) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return u.cancelled(err)
		}

		u.printf("\n")
		if err := u.display(u.board.Grid()); err != nil {
			return err
		}
		u.printf("Menu:\n1. Color a cell\n2. Erase a cell\n3. Undo\n4. Exit\n")
		u.printf("Enter your choice: ")

		choice, err := u.in.nextIntCtx(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, errNotInteger) {
			u.printf("Invalid choice!\n")
			break
		}
		if isDone(ctx, err) {
			return u.cancelled(err)
		}
		if err != nil {
			return fmt.Errorf("reading choice: %w", err)
		}
		if choice == ChoiceExit {
			break
		}

		switch choice {
		case ChoiceColor:
			err = u.colorCell(ctx)
		case ChoiceErase:
			err = u.eraseCell(ctx)
		case ChoiceUndo:
			u.report(u.board.Undo())
		default:
			u.printf("Invalid choice!\n")
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if isDone(ctx, err) {
			return u.cancelled(err)
		}
		if err != nil {
			return err
		}
	}

	u.printf("Exiting the drawing board application.\n")
	return nil
}

// cancelled prints the exit message and returns err.
func (u *UI) cancelled(err error) error {
	u.printf("\nExiting the drawing board application.\n")
	return err
}

// isDone reports whether err is ctx's own cancellation error.
func isDone(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err())
}

// colorCell prompts for coordinates and a color character.
func (u *UI) colorCell(ctx context.Context) error {
	row, col, ok, err := u.readRowAndCol(ctx)
	if err != nil || !ok {
		return err
	}

	u.printf("Enter the color character: ")
	tok, err := u.in.nextCtx(ctx)
	if err != nil {
		return err
	}
	color := []rune(tok)[0]

	u.report(u.board.ColorCell(row, col, color))
	return nil
}

// eraseCell prompts for coordinates.
func (u *UI) eraseCell(ctx context.Context) error {
	row, col, ok, err := u.readRowAndCol(ctx)
	if err != nil || !ok {
		return err
	}

	u.report(u.board.EraseCell(row, col))
	return nil
}

// readRowAndCol prompts for a row and a column. On a non-integer it prints
// a message, drops the rest of the line and returns ok == false.
func (u *UI) readRowAndCol(ctx context.Context) (row, col int, ok bool, err error) {
	u.printf("Enter the row coordinate: ")
	row, err = u.in.nextIntCtx(ctx)
	if errors.Is(err, errNotInteger) {
		u.printf("Invalid input for row. Please enter a valid integer.\n")
		return 0, 0, false, u.in.discardLineCtx(ctx)
	}
	if err != nil {
		return 0, 0, false, err
	}

	u.printf("Enter the column coordinate: ")
	col, err = u.in.nextIntCtx(ctx)
	if errors.Is(err, errNotInteger) {
		u.printf("Invalid input for column. Please enter a valid integer.\n")
		return 0, 0, false, u.in.discardLineCtx(ctx)
	}
	if err != nil {
		return 0, 0, false, err
	}

	return row, col, true, nil
}

// report prints a board error, if any, and lets the loop continue.
func (u *UI) report(err error) {
	if err == nil {
		return
	}
	var ce *board.CoordinateError
	switch {
	case errors.As(err, &ce):
		u.printf("Invalid cell coordinates!\n")
	case errors.Is(err, board.ErrEmptyHistory):
		u.printf("No actions to undo.\n")
	default:
		u.printf("%v\n", err)
	}
}

// display writes the grid as rows of cells each followed by a space.
func (u *UI) display(grid board.Grid) error {
	for r := 0; r < grid.Size(); r++ {
		for _, cell := range grid.Row(r) {
			if _, err := fmt.Fprintf(u.out, "%c ", cell); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(u.out); err != nil {
			return err
		}
	}
	return nil
}

func (u *UI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(u.out, format, args...)
}

// ReadSize prompts for the board size on out and reads it from in.
// Non-integer or non-positive input returns ErrInvalidSize after printing
// the reason. Pass the same *bufio.Reader to ReadSize and New so that input
// buffered while reading the size is not lost. Cancelling ctx interrupts the
// read and returns ctx.Err().
func ReadSize(ctx context.Context, in io.Reader, out io.Writer) (int, error) {
	fmt.Fprint(out, "Enter the size of the drawing board: ")

	size, err := newTokenReader(in).nextIntCtx(ctx)
	if err == nil && size > 0 {
		return size, nil
	}
	if isDone(ctx, err) {
		fmt.Fprintln(out)
		return 0, err
	}
	if err != nil && !errors.Is(err, errNotInteger) && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("reading size: %w", err)
	}

	fmt.Fprintln(out, "Invalid input given, please give a positive integer/valid input next time.")
	return 0, ErrInvalidSize
}
