// File: api/logger.go
// Author: momentics <momentics@gmail.com>
//
// Structured logging interface, compatible with *slog.Logger from the
// standard library so applications can plug in their own implementation.

package api

import "log/slog"

// Logger is the interface for structured logging.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, args ...any)
	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, args ...any)
}

// DefaultLogger returns the default slog logger.
func DefaultLogger() Logger {
	return slog.Default()
}
