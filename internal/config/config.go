// Package config handles application configuration and setup
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// LoadEmulator reads emulator options from a JSON file. Keys missing in the
// file keep their default values. A missing file returns the defaults and
// an error wrapping fs.ErrNotExist.
func LoadEmulator(path string) (options.Emulator, error) {
	opts := options.NewEmulator()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading config file '%s': %w", path, err)
	}

	if err := json.Unmarshal(data, &opts); err != nil {
		return options.NewEmulator(), fmt.Errorf("parsing config file '%s': %w", path, err)
	}

	if err := opts.Validate(); err != nil {
		return options.NewEmulator(), fmt.Errorf("validating config file '%s': %w", path, err)
	}
	return opts, nil
}

// LoadOrCreateEmulator reads emulator options from a JSON file and creates
// the file with default options if it does not exist.
func LoadOrCreateEmulator(path string) (options.Emulator, error) {
	opts, err := LoadEmulator(path)
	if err == nil {
		return opts, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return opts, err
	}

	if err := WriteEmulator(path, opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// WriteEmulator writes the emulator options as JSON file.
func WriteEmulator(path string, opts options.Emulator) error {
	data, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file '%s': %w", path, err)
	}
	return nil
}
