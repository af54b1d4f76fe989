// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

// Package logging is the single zerolog-backed logger used by every MoodMeet
// component.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("code", code).Msg("Meeting created")
//	logging.Meeting(ctx, code).Warn().Err(err).Msg("Flush failed")
//
// Environment (read by internal/config, not here):
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include file:line (default: false)
//
// Every chain must end with Msg or Send, otherwise nothing is written.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error or disabled.
	Level string

	// Format is json or console.
	Format string

	// Caller adds file:line to every entry.
	Caller bool

	// Timestamp adds the time field.
	Timestamp bool

	// Service, when set, is attached to every entry as "service".
	Service string

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Service:   "moodmeet",
		Output:    os.Stderr,
	}
}

var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // the logger must be usable before main calls Init
func init() {
	Init(DefaultConfig())
}

// Init replaces the global logger. Safe to call more than once and from
// any goroutine; entries already started keep the logger they began with.
func Init(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"

	out := cfg.Output
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	lc := zerolog.New(out).With()
	if cfg.Timestamp {
		lc = lc.Timestamp()
	}
	if cfg.Caller {
		lc = lc.Caller()
	}
	if cfg.Service != "" {
		lc = lc.Str("service", cfg.Service)
	}
	l := lc.Logger()
	global.Store(&l)
}

// parseLevel accepts zerolog's names plus "warning". Anything unknown,
// including "", is info.
func parseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	if level == "" {
		return zerolog.InfoLevel
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

func current() *zerolog.Logger { return global.Load() }

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger { return *current() }

// SetLogger replaces the global logger. Mostly used by tests.
//
//nolint:gocritic // zerolog.Logger is passed by value
func SetLogger(l zerolog.Logger) { global.Store(&l) }

// With starts a child logger context.
func With() zerolog.Context { return current().With() }

// Debug starts a debug entry.
func Debug() *zerolog.Event { return current().Debug() }

// Info starts an info entry.
func Info() *zerolog.Event { return current().Info() }

// Warn starts a warn entry.
func Warn() *zerolog.Event { return current().Warn() }

// Error starts an error entry.
func Error() *zerolog.Event { return current().Error() }

// Fatal starts a fatal entry; os.Exit(1) follows Msg.
func Fatal() *zerolog.Event { return current().Fatal() }

// Err starts an entry carrying err, at error level when err is non-nil.
func Err(err error) *zerolog.Event { return current().Err(err) }

// NewTestLogger writes JSON entries to w.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
