package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// SetupLogging configures the global slog default logger with the given
// log level and format. The format parameter should be "json" for JSON
// output or any other value for human-readable text output. All log
// output goes to os.Stderr so the terminal UI and piped output stay clean.
//
// Safe to call multiple times; each call replaces the previous global
// logger configuration.
func SetupLogging(level slog.Level, format string) {
	SetupLoggingWithWriter(level, format, os.Stderr)
}

// SetupLoggingWithWriter is the testable variant of SetupLogging: log
// output is written to w instead of os.Stderr.
func SetupLoggingWithWriter(level slog.Level, format string, w io.Writer) {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// ResolveLogLevel determines the slog.Level from CLI flags and the
// environment. Priority, highest first:
//
//  1. BURROW_DEBUG=1 -> slog.LevelDebug
//  2. --verbose -> slog.LevelDebug
//  3. --quiet -> slog.LevelError
//  4. default -> slog.LevelWarn
//
// The default is Warn rather than Info: burrow owns the terminal while it
// runs, so routine logs would fight the UI for the screen.
func ResolveLogLevel(verbose, quiet bool) slog.Level {
	if os.Getenv(EnvDebug) == "1" {
		return slog.LevelDebug
	}
	if verbose {
		return slog.LevelDebug
	}
	if quiet {
		return slog.LevelError
	}
	return slog.LevelWarn
}

// ResolveLogFormat reads BURROW_LOG_FORMAT and returns "json" when it is
// set to "json" (case-insensitive), otherwise "text".
func ResolveLogFormat() string {
	if strings.EqualFold(os.Getenv(EnvLogFormat), "json") {
		return "json"
	}
	return "text"
}

// NewLogger returns a child of the global logger with a "component"
// attribute, so output can be filtered by subsystem.
func NewLogger(component string) *slog.Logger {
	return slog.Default().With("component", component)
}
