package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mattn/go-isatty"

	scierrors "github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
)

// SetupLogger configures process-wide logging for the CLI.
//
// It installs a slog default handler wrapped by ErrFmtHandler, a zerolog
// provider at the same level, and routes pkg/errors warnings to that provider.
// Both write human-readable lines when w is a terminal and JSON otherwise.
func SetupLogger(loglevel string, w io.Writer) error {
	level, err := ParseLevel(loglevel)
	if err != nil {
		return err
	}

	ops := slog.HandlerOptions{
		Level: slog.Level(level),
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{
					Key:   "severity",
					Value: attr.Value,
				}
			case slog.MessageKey:
				attr = slog.Attr{
					Key:   "message",
					Value: attr.Value,
				}
			}
			return attr
		},
	}
	if IsTerminal(w) {
		slog.SetDefault(slog.New(WrapByErrFmtHandler(slog.NewTextHandler(w, &ops))))
		SetProvider(NewConsoleProvider(w, level))
	} else {
		slog.SetDefault(slog.New(WrapByErrFmtHandler(slog.NewJSONHandler(w, &ops))))
		SetProvider(NewZerologProvider(w, level))
	}
	scierrors.SetZerologWarnFunc(func(warning error) {
		GetLoggerWithName("warnings").Warn(warning.Error(),
			ErrorTypeKey, fmt.Sprintf("%T", warning),
			"warning", warning,
		)
	})
	return nil
}

// ParseLevel converts a textual level ("debug", "info", "warn", "error").
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "info", "":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, scierrors.NewValidationError("log_level", "must be one of debug, info, warn, error", level)
	}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
