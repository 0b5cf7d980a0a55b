// Package main is the entry point for drawboard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/drawboard/internal/app"
	"github.com/dshills/drawboard/internal/console"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		// Restore default signal handling so a second Ctrl-C kills the process.
		<-ctx.Done()
		stop()
	}()

	err = application.Run(ctx)
	switch {
	case err == nil, errors.Is(err, app.ErrQuit), errors.Is(err, context.Canceled):
		return 0
	case errors.Is(err, console.ErrInvalidSize):
		// Already reported at the prompt.
		return 1
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
}

func parseFlags() app.Options {
	var opts app.Options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.IntVar(&opts.Size, "size", 0, "Board size; prompt when unset")
	flag.IntVar(&opts.Size, "s", 0, "Board size (shorthand)")
	flag.StringVar(&opts.Mode, "mode", "", "Driver: console or tui")
	flag.StringVar(&opts.Mode, "m", "", "Driver (shorthand)")
	flag.StringVar(&opts.ScriptPath, "script", "", "Lua script to run before the driver starts")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Drawboard - character grid drawing board\n\n")
		fmt.Fprintf(os.Stderr, "Usage: drawboard [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  drawboard                       Prompt for a size, menu driver\n")
		fmt.Fprintf(os.Stderr, "  drawboard -s 8 -m tui           8x8 board in full-screen mode\n")
		fmt.Fprintf(os.Stderr, "  drawboard -s 5 -script art.lua  Paint with a script, then edit\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Drawboard %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.Size < 0 {
		fmt.Fprintf(os.Stderr, "Error: invalid size %d (must be positive)\n", opts.Size)
		os.Exit(1)
	}

	return opts
}
