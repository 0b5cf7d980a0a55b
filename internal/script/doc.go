// Package script runs Lua programs against a board.
//
// Scripts execute in a sandboxed gopher-lua state with only the base, table,
// string and math libraries opened. A global table named board exposes:
//
//	board.color(row, col, ch)  -- paint one cell; ch must be a single character
//	board.erase(row, col)      -- reset one cell to the empty marker
//	board.undo()               -- revert the most recent change
//	board.size()               -- side length of the grid
//	board.get(row, col)        -- character at a cell
//	board.render()             -- grid as text, one line per row
//	board.can_undo()           -- whether undo would succeed
//
// Coordinates are 0-based. Board errors raise Lua errors carrying the Go
// error message, so scripts may guard calls with pcall. The global print
// writes to the Runner's output rather than the process stdout.
package script
