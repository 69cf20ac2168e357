// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

// Package logging provides the repository engine's zerolog-based logging.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Msg("store opened")
//	logging.Error().Err(err).Msg("migration step failed")
//
// # Configuration
//
// The package reads no environment variables; it is configured through
// Init. At package init it applies DefaultConfig (level info, console
// format); a later Init call with an empty Level or Format falls back to
// info and json respectively.
//
// Always terminate log chains with .Msg() or .Send() — a chain left
// unterminated never emits.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string
	// Format is the output format: json or console.
	Format string
	// Caller includes caller file:line in each log line.
	Caller bool
	// Output is the writer for log output. Default: os.Stderr.
	Output io.Writer
}

// DefaultConfig returns sensible defaults for a CLI-embedded library.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: os.Stderr,
	}
}

var (
	globalMu     sync.RWMutex
	globalLogger zerolog.Logger
)

func init() {
	Init(DefaultConfig())
}

// Init (re)configures the package-global logger. Safe to call more than once
// (e.g. once with defaults at package init, then again once the embedder's
// configuration has been loaded).
func Init(cfg Config) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var w io.Writer = cfg.Output
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(w).Level(level).With().Timestamp()
	if cfg.Caller {
		logger = logger.Caller()
	}

	globalMu.Lock()
	globalLogger = logger.Logger()
	globalMu.Unlock()
}

func current() zerolog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// With returns a zerolog.Context seeded from the global logger, for building
// component-scoped loggers: logging.With().Str("component", "migrate").Logger().
func With() zerolog.Context { return current().With() }

// Debug starts a debug-level log event.
func Debug() *zerolog.Event { return current().Debug() }

// Info starts an info-level log event.
func Info() *zerolog.Event { return current().Info() }

// Warn starts a warn-level log event.
func Warn() *zerolog.Event { return current().Warn() }

// Error starts an error-level log event.
func Error() *zerolog.Event { return current().Error() }
