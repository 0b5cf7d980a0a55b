package script

import (
	"math"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"
)

// checkCoord returns argument n as an int, raising an argument error for
// fractional or out-of-range numbers instead of truncating them.
func checkCoord(L *lua.LState, n int) int {
	v := float64(L.CheckNumber(n))
	if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
		L.ArgError(n, "expected an integer")
		return 0
	}
	return int(v)
}

// register installs the board table into L.
func (r *Runner) register(L *lua.LState) {
	mod := L.NewTable()

	L.SetField(mod, "color", L.NewFunction(r.color))
	L.SetField(mod, "erase", L.NewFunction(r.erase))
	L.SetField(mod, "undo", L.NewFunction(r.undo))
	L.SetField(mod, "size", L.NewFunction(r.size))
	L.SetField(mod, "get", L.NewFunction(r.get))
	L.SetField(mod, "render", L.NewFunction(r.render))
	L.SetField(mod, "can_undo", L.NewFunction(r.canUndo))

	L.SetGlobal("board", mod)
}

// color(row, col, ch)
func (r *Runner) color(L *lua.LState) int {
	row := checkCoord(L, 1)
	col := checkCoord(L, 2)
	ch := L.CheckString(3)

	if utf8.RuneCountInString(ch) != 1 {
		L.ArgError(3, "expected a single character")
		return 0
	}
	value, _ := utf8.DecodeRuneInString(ch)

	if err := r.board.ColorCell(row, col, value); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// erase(row, col)
func (r *Runner) erase(L *lua.LState) int {
	row := checkCoord(L, 1)
	col := checkCoord(L, 2)

	if err := r.board.EraseCell(row, col); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// undo()
func (r *Runner) undo(L *lua.LState) int {
	if err := r.board.Undo(); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// size() -> number
func (r *Runner) size(L *lua.LState) int {
	L.Push(lua.LNumber(r.board.Size()))
	return 1
}

// get(row, col) -> string
func (r *Runner) get(L *lua.LState) int {
	row := checkCoord(L, 1)
	col := checkCoord(L, 2)

	value, err := r.board.Cell(row, col)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(lua.LString(string(value)))
	return 1
}

// render() -> string
func (r *Runner) render(L *lua.LState) int {
	L.Push(lua.LString(r.board.Grid().String()))
	return 1
}

// can_undo() -> boolean
func (r *Runner) canUndo(L *lua.LState) int {
	L.Push(lua.LBool(r.board.CanUndo()))
	return 1
}
