// Package log provides the structured logging interface used across the
// approval pipeline.
//
// The interface is deliberately small and slog-compatible so stages can log
// with key/value pairs without depending on a concrete backend. The default
// provider is backed by zerolog; tests swap in TestLoggerProvider.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("pipeline").With(
//	    log.RunIDKey, runID,
//	)
//	logger.Info("Split complete",
//	    log.StageKey, log.StageSplit,
//	    log.SamplesKey, 518,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// The With method returns a child logger carrying pre-populated fields, so a
// stage can attach its model name once and reuse the logger.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If the first field is an error it is attached under ErrAttrKey, and
	// a stack trace is added when the error carries one.
	//
	// Example:
	//   logger.Error("Imputation failed",
	//       err,
	//       log.StageKey, log.StageImpute,
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider defines an interface for creating and configuring loggers.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger with a specific name/component identifier.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
