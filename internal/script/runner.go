package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/drawboard/internal/board"
)

// DefaultTimeout bounds a single Run call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Runner executes Lua code against a board.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes Run calls.
type Runner struct {
	board   *board.Board
	out     io.Writer
	timeout time.Duration

	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTimeout sets the execution timeout. Zero or negative disables it.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithOutput redirects the Lua print function.
func WithOutput(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.out = w
	}
}

// NewRunner creates a sandboxed Lua state bound to b.
func NewRunner(b *board.Board, opts ...RunnerOption) *Runner {
	r := &Runner{
		board:   b,
		out:     io.Discard,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	L.SetGlobal("print", L.NewFunction(r.print))
	r.register(L)
	r.L = L

	return r
}

// openSafeLibraries opens only the libraries without host access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Base opens these loaders; they reach the file system.
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
}

// RunString executes code. name identifies the chunk in errors.
func (r *Runner) RunString(ctx context.Context, name, code string) error {
	return r.run(ctx, name, func(L *lua.LState) error {
		fn, err := L.Load(strings.NewReader(code), name)
		if err != nil {
			return err
		}
		L.Push(fn)
		return L.PCall(0, lua.MultRet, nil)
	})
}

// RunFile executes the Lua file at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	return r.run(ctx, path, func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

func (r *Runner) run(ctx context.Context, name string, fn func(*lua.LState) error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	defer func() {
		if rec := recover(); rec != nil {
			err = &Error{Chunk: name, Err: fmt.Errorf("lua panic: %v", rec)}
		}
	}()

	top := r.L.GetTop()
	runErr := fn(r.L)
	r.L.SetTop(top)
	if runErr == nil {
		return nil
	}

	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		runErr = fmt.Errorf("%w after %s", ErrExecutionTimeout, r.timeout)
	case ctxErr != nil:
		runErr = ctxErr
	}
	return &Error{Chunk: name, Err: runErr}
}

// Close releases the Lua state. Close is idempotent.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}

// print(...) writes its arguments tab-separated with a trailing newline.
func (r *Runner) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(r.out, strings.Join(parts, "\t"))
	return 0
}
