// Package config provides layered configuration for drawboard.
//
// Settings are resolved from four layers, lowest priority first:
//
//	defaults  <  config file (TOML or YAML)  <  DRAWBOARD_* environment  <  flags
//
// Each layer is a nested map. Layers are combined with DeepMerge and the
// result is decoded into a Config and validated. A missing config file is
// not an error.
//
// Example drawboard.toml:
//
//	[board]
//	size = 8
//
//	[ui]
//	mode = "tui"
//
//	[logging]
//	level = "debug"
//	file = "/tmp/drawboard.log"
//
// Watcher reloads the file when it changes on disk so that settings which
// can change at runtime, such as the log level, take effect without restart.
package config
