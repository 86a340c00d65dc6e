package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

var (
	providerMu      sync.RWMutex
	defaultProvider LoggerProvider = NewZerologProvider(os.Stderr, LevelInfo)
)

// SetProvider replaces the process-wide logger provider.
// Passing nil restores a zerolog provider writing to stderr.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	if p == nil {
		p = NewZerologProvider(os.Stderr, LevelInfo)
	}
	defaultProvider = p
}

// Provider returns the process-wide logger provider.
func Provider() LoggerProvider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider
}

// GetLogger returns the default logger of the current provider.
func GetLogger() Logger {
	return Provider().GetLogger()
}

// GetLoggerWithName returns a logger tagged with the given component name.
func GetLoggerWithName(name string) Logger {
	return Provider().GetLoggerWithName(name)
}

// SetLevel changes the minimum level of the current provider.
func SetLevel(level Level) {
	Provider().SetLevel(level)
}

// ZerologProvider is the default LoggerProvider. All loggers it hands out
// share its level, so SetLevel also affects loggers created earlier.
type ZerologProvider struct {
	base  zerolog.Logger
	level atomic.Int32
}

// NewZerologProvider creates a provider writing JSON lines to w.
func NewZerologProvider(w io.Writer, level Level) *ZerologProvider {
	p := &ZerologProvider{
		base: zerolog.New(w).With().Timestamp().Logger(),
	}
	p.level.Store(int32(level))
	return p
}

// NewConsoleProvider creates a provider with human-readable output.
// SetupLogger picks it when the log destination is a terminal.
func NewConsoleProvider(w io.Writer, level Level) *ZerologProvider {
	p := &ZerologProvider{
		base: zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger(),
	}
	p.level.Store(int32(level))
	return p
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	return &zerologLogger{zl: p.base, provider: p}
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{zl: p.base.With().Str(ComponentKey, name).Logger(), provider: p}
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *ZerologProvider) SetLevel(level Level) {
	p.level.Store(int32(level))
}

// Level returns the current minimum level.
func (p *ZerologProvider) Level() Level {
	return Level(p.level.Load())
}

type zerologLogger struct {
	zl       zerolog.Logger
	provider *ZerologProvider
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	if l.enabled(LevelDebug) {
		l.emit(l.zl.Debug(), msg, fields)
	}
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	if l.enabled(LevelInfo) {
		l.emit(l.zl.Info(), msg, fields)
	}
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	if l.enabled(LevelWarn) {
		l.emit(l.zl.Warn(), msg, fields)
	}
}

func (l *zerologLogger) Error(msg string, fields ...any) {
	if !l.enabled(LevelError) {
		return
	}
	ev := l.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = withError(ev, err)
			fields = fields[1:]
		}
	}
	l.emit(ev, msg, fields)
}

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		switch v := fields[i+1].(type) {
		case error:
			ctx = ctx.AnErr(key, v)
		default:
			ctx = ctx.Interface(key, v)
		}
	}
	return &zerologLogger{zl: ctx.Logger(), provider: l.provider}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return l.enabled(level)
}

func (l *zerologLogger) enabled(level Level) bool {
	return level >= l.provider.Level()
}

func (l *zerologLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		switch v := fields[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		case zerolog.LogObjectMarshaler:
			ev = ev.Object(key, v)
		case time.Duration:
			ev = ev.Int64(key, v.Milliseconds())
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

// withError attaches err, its structured fields when it has any, and the
// stack trace recorded by cockroachdb/errors.
func withError(ev *zerolog.Event, err error) *zerolog.Event {
	ev = ev.AnErr(ErrAttrKey, err)
	var obj zerolog.LogObjectMarshaler
	if errors.As(err, &obj) {
		ev = ev.Object("detail", obj)
	}
	if st := extractStacktrace(err); st != "" {
		ev = ev.Str(StacktraceAttrKey, st)
	}
	return ev
}
