// Package board provides the grid-state manager for drawboard.
//
// A Board is a fixed-size square grid of single-rune cells. Every cell always
// holds a rune; a fresh board is filled with the Empty sentinel ('-').
//
// # Mutations
//
// ColorCell and EraseCell overwrite one cell after validating its coordinates.
// Each successful mutation records the previous value in the board's History
// so that Undo can restore it:
//
//	b, _ := board.New(3)
//	b.ColorCell(0, 0, 'X') // grid[0][0] == 'X'
//	b.Undo()               // grid[0][0] == '-'
//
// Undo is strictly LIFO and single-step. There is no redo.
//
// # Observers
//
// Observers subscribe with RegisterObserver and are called synchronously, in
// registration order, after every committed mutation. Each call receives an
// immutable Grid snapshot. A failing observer (error or panic) is reported to
// the failure handler and never prevents the remaining observers from running.
//
// # Concurrency
//
// A Board serializes each operation, including its notification fan-out, with
// one mutex. Observers must not call back into the Board that notifies them.
package board
