package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dshills/drawboard/internal/board"
	"github.com/dshills/drawboard/internal/config"
	"github.com/dshills/drawboard/internal/console"
	"github.com/dshills/drawboard/internal/script"
	"github.com/dshills/drawboard/internal/tui"
)

// Application owns the resolved configuration, the logger, the board and
// the driver that edits it.
type Application struct {
	mu sync.RWMutex

	opts      Options
	overrides map[string]any
	cfg       *config.Config

	logger  *Logger
	logFile io.Closer

	in  *bufio.Reader
	out io.Writer

	board *board.Board

	running      atomic.Bool
	shutdownOnce sync.Once
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to a TOML or YAML configuration file.
	ConfigPath string

	// Size overrides board.size when positive.
	Size int

	// Mode overrides ui.mode when set.
	Mode string

	// ScriptPath overrides script.path when set.
	ScriptPath string

	// LogLevel overrides logging.level when set.
	LogLevel string

	// LogFile overrides logging.file when set.
	LogFile string

	// Stdin, Stdout and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Backend replaces the tcell terminal in tui mode.
	Backend tui.Backend
}

// New resolves the configuration and sets up logging.
func New(opts Options) (*Application, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	app := &Application{
		opts:      opts,
		overrides: opts.overrides(),
		in:        bufio.NewReader(opts.Stdin),
		out:       opts.Stdout,
	}

	cfg, err := config.Load(opts.ConfigPath, app.overrides)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, NewOperationError("load config", opts.ConfigPath, err))
	}
	app.cfg = cfg

	if err := app.setupLogger(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}

	return app, nil
}

// overrides turns the set options into a config layer.
func (o Options) overrides() map[string]any {
	m := map[string]any{}
	if o.Size > 0 {
		m = config.SetPath(m, "board.size", o.Size)
	}
	if o.Mode != "" {
		m = config.SetPath(m, "ui.mode", o.Mode)
	}
	if o.ScriptPath != "" {
		m = config.SetPath(m, "script.path", o.ScriptPath)
	}
	if o.LogLevel != "" {
		m = config.SetPath(m, "logging.level", o.LogLevel)
	}
	if o.LogFile != "" {
		m = config.SetPath(m, "logging.file", o.LogFile)
	}
	return m
}

// setupLogger writes to the configured file, else to stderr in console
// mode. The terminal UI owns the screen, so without a file it logs nothing.
func (app *Application) setupLogger() error {
	lc := DefaultLoggerConfig()
	lc.Level = ParseLogLevel(app.cfg.Logging.Level)
	lc.Output = app.opts.Stderr

	if path := app.cfg.Logging.File; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return NewOperationError("open log file", path, err)
		}
		app.logFile = f
		lc.Output = f
	}

	app.logger = NewLogger(lc)
	if app.cfg.Logging.File == "" && app.cfg.UI.Mode == config.ModeTUI {
		app.logger.Disable()
	}
	SetLogger(app.logger)
	return nil
}

// Config returns the current configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.cfg
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Board returns the board, or nil before Run created it.
func (app *Application) Board() *board.Board {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.board
}

// Run creates the board, runs the configured script and then the driver
// until the user quits or ctx is done. A user-requested exit returns
// ErrQuit.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	cfg := app.Config()
	log := app.logger.WithComponent("app")

	b, err := app.newBoard(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info("board ready (size %d, mode %s)", b.Size(), cfg.UI.Mode)

	if app.opts.ConfigPath != "" {
		stop, err := app.watchConfig(ctx)
		if err != nil {
			log.Warn("config watcher disabled: %v", err)
		} else {
			defer stop()
		}
	}

	if cfg.Script.Path != "" {
		if err := app.runScript(ctx, b, cfg); err != nil {
			return err
		}
	}

	switch cfg.UI.Mode {
	case config.ModeTUI:
		err = app.runTUI(ctx, b, cfg)
	default:
		err = app.runConsole(ctx, b)
	}
	if err != nil {
		return err
	}

	log.Info("exiting after %d recorded edits", b.UndoCount())
	return ErrQuit
}

// newBoard builds the board, prompting for its size when the
// configuration leaves it unset.
func (app *Application) newBoard(ctx context.Context, cfg *config.Config) (*board.Board, error) {
	size := cfg.Board.Size
	if size == 0 {
		var err error
		size, err = console.ReadSize(ctx, app.in, app.out)
		if err != nil {
			return nil, err
		}
	}

	b, err := board.New(size, board.WithFailureHandler(app.observerFailed))
	if err != nil {
		return nil, NewOperationError("create board", "", err)
	}
	b.RegisterObserver(board.ObserverFunc(app.logChange))

	app.mu.Lock()
	app.board = b
	app.mu.Unlock()
	return b, nil
}

// logChange is a debug observer. It runs under the board lock and must
// only read the grid it is given.
func (app *Application) logChange(g board.Grid) error {
	painted := 0
	for r := 0; r < g.Size(); r++ {
		for _, c := range g.Row(r) {
			if c != board.Empty {
				painted++
			}
		}
	}
	app.logger.WithComponent("board").Debug("grid changed (%d painted cells)", painted)
	return nil
}

func (app *Application) observerFailed(e *board.ObserverError) {
	log := app.logger.WithComponent("board").WithField("subscription", e.Subscription)
	if e.Panicked {
		log.Error("observer panicked: %v", e.PanicValue)
		log.Debug("observer stack:\n%s", e.Stack)
		return
	}
	log.Error("observer failed: %v", e.Err)
}

func (app *Application) runScript(ctx context.Context, b *board.Board, cfg *config.Config) error {
	runner := script.NewRunner(b,
		script.WithTimeout(cfg.ScriptTimeout()),
		script.WithOutput(app.out),
	)
	defer runner.Close()

	app.logger.WithComponent("script").Info("running %s", cfg.Script.Path)
	if err := runner.RunFile(ctx, cfg.Script.Path); err != nil {
		return NewOperationError("run script", cfg.Script.Path, err)
	}
	return nil
}

func (app *Application) runConsole(ctx context.Context, b *board.Board) error {
	ui := console.New(b, app.in, app.out)
	sub := b.RegisterObserver(ui)
	defer b.Unsubscribe(sub)

	return ui.Run(ctx)
}

func (app *Application) runTUI(ctx context.Context, b *board.Board, cfg *config.Config) error {
	backend := app.opts.Backend
	if backend == nil {
		term, err := tui.NewTerminal()
		if err != nil {
			return NewOperationError("open terminal", "", err)
		}
		backend = term
	}

	editor := tui.NewEditor(b, backend, tui.WithStatusLine(cfg.UI.StatusLine))
	return editor.Run(ctx)
}

// watchConfig reloads the config file on change and applies the new log
// level. The returned function stops the watcher.
func (app *Application) watchConfig(ctx context.Context) (func(), error) {
	w, err := config.NewWatcher(app.opts.ConfigPath, app.overrides, app.reload)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, config.ErrWatcherClosed) {
			app.logger.WithComponent("config").Warn("watcher stopped: %v", err)
		}
	}()

	return func() {
		cancel()
		_ = w.Close()
		<-done
	}, nil
}

func (app *Application) reload(cfg *config.Config, err error) {
	log := app.logger.WithComponent("config")
	if err != nil {
		log.Warn("reload failed, keeping previous config: %v", err)
		return
	}

	app.mu.Lock()
	app.cfg = cfg
	app.mu.Unlock()

	app.logger.SetLevel(ParseLogLevel(cfg.Logging.Level))
	log.Info("config reloaded (log level %s)", cfg.Logging.Level)
}

// Shutdown releases resources. Shutdown is idempotent.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		if app.logFile != nil {
			_ = app.logFile.Close()
		}
	})
}
