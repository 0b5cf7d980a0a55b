package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables read by LoadEnv.
const EnvPrefix = "DRAWBOARD_"

// valueKind controls how an environment string is converted.
type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindBool
)

type envBinding struct {
	path string
	kind valueKind
}

// envMapping maps environment variables to config paths.
var envMapping = map[string]envBinding{
	EnvPrefix + "SIZE":           {"board.size", kindInt},
	EnvPrefix + "MODE":           {"ui.mode", kindString},
	EnvPrefix + "STATUS_LINE":    {"ui.status_line", kindBool},
	EnvPrefix + "SCRIPT":         {"script.path", kindString},
	EnvPrefix + "SCRIPT_TIMEOUT": {"script.timeout", kindString},
	EnvPrefix + "LOG_LEVEL":      {"logging.level", kindString},
	EnvPrefix + "LOG_FILE":       {"logging.file", kindString},
}

// Load resolves the configuration from defaults, the file at path (if any),
// the environment and overrides, in that order of increasing priority.
func Load(path string, overrides map[string]any) (*Config, error) {
	merged := Defaults()

	if path != "" {
		file, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		merged = DeepMerge(merged, file)
	}

	env, err := LoadEnv()
	if err != nil {
		return nil, err
	}
	merged = DeepMerge(merged, env)
	merged = DeepMerge(merged, overrides)

	return FromMap(merged)
}

// LoadFile reads a TOML or YAML file, chosen by extension.
// Returns nil, nil if the file doesn't exist.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var m map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}

	return m, nil
}

// LoadEnv reads the DRAWBOARD_* environment variables.
func LoadEnv() (map[string]any, error) {
	m := make(map[string]any)

	for env, b := range envMapping {
		raw, ok := os.LookupEnv(env)
		if !ok {
			continue
		}

		value, err := parseValue(raw, b.kind)
		if err != nil {
			return nil, &ValidationError{Path: b.path, Message: fmt.Sprintf("invalid %s: %v", env, err), Value: raw}
		}
		setByPath(m, b.path, value)
	}

	return m, nil
}

// parseValue converts an environment string to the kind a setting expects.
func parseValue(s string, kind valueKind) (any, error) {
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		return n, nil
	case kindBool:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0", "":
			return false, nil
		}
		return nil, fmt.Errorf("not a boolean: %q", s)
	default:
		return s, nil
	}
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}

	current[parts[len(parts)-1]] = value
}

// SetPath returns a single-entry override map for a dot-separated path.
func SetPath(overrides map[string]any, path string, value any) map[string]any {
	if overrides == nil {
		overrides = make(map[string]any)
	}
	setByPath(overrides, path, value)
	return overrides
}

// DeepMerge recursively merges src into dst.
// Values in src override values in dst.
// Maps are merged recursively; other types are replaced.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	if src == nil {
		return dst
	}

	for key, srcVal := range src {
		dstVal, exists := dst[key]
		if !exists {
			dst[key] = srcVal
			continue
		}

		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dstVal.(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
		} else {
			dst[key] = srcVal
		}
	}

	return dst
}
