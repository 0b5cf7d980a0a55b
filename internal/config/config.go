package config

import (
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// UI modes.
const (
	ModeConsole = "console"
	ModeTUI     = "tui"
)

// Config is the resolved drawboard configuration.
type Config struct {
	Board   BoardConfig   `toml:"board"`
	UI      UIConfig      `toml:"ui"`
	Script  ScriptConfig  `toml:"script"`
	Logging LoggingConfig `toml:"logging"`
}

// BoardConfig holds board settings.
type BoardConfig struct {
	// Size is the number of rows and columns. Zero means ask the user.
	Size int `toml:"size"`
}

// UIConfig holds driver settings.
type UIConfig struct {
	// Mode selects the driver: "console" or "tui".
	Mode string `toml:"mode"`
	// StatusLine shows the key help and last error under the grid in tui mode.
	StatusLine bool `toml:"status_line"`
}

// ScriptConfig holds Lua scripting settings.
type ScriptConfig struct {
	// Path is a Lua file run against the board before the driver starts.
	Path string `toml:"path"`
	// Timeout bounds script execution, as a Go duration string.
	Timeout string `toml:"timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `toml:"level"`
	// File receives log output. Empty means stderr (console mode) or
	// no logging (tui mode).
	File string `toml:"file"`
}

// Defaults returns the built-in configuration layer.
func Defaults() map[string]any {
	return map[string]any{
		"board": map[string]any{
			"size": 0,
		},
		"ui": map[string]any{
			"mode":        ModeConsole,
			"status_line": true,
		},
		"script": map[string]any{
			"path":    "",
			"timeout": "5s",
		},
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
	}
}

// Default returns the configuration built from Defaults alone.
func Default() *Config {
	cfg, err := FromMap(Defaults())
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

// FromMap decodes a merged configuration map and validates it.
func FromMap(m map[string]any) (*Config, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding merged config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: "<merged>", Message: err.Error(), Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if c.Board.Size < 0 {
		return &ValidationError{Path: "board.size", Message: "must not be negative", Value: c.Board.Size}
	}

	switch c.UI.Mode {
	case ModeConsole, ModeTUI:
	default:
		return &ValidationError{Path: "ui.mode", Message: `must be "console" or "tui"`, Value: c.UI.Mode}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Message: "must be debug, info, warn, or error", Value: c.Logging.Level}
	}

	if c.Script.Timeout != "" {
		d, err := time.ParseDuration(c.Script.Timeout)
		if err != nil || d <= 0 {
			return &ValidationError{Path: "script.timeout", Message: "must be a positive duration", Value: c.Script.Timeout}
		}
	}

	return nil
}

// ScriptTimeout returns the parsed script timeout, or zero for no limit.
func (c *Config) ScriptTimeout() time.Duration {
	if c.Script.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Script.Timeout)
	return d
}
