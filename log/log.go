package log

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// Logger is an immutable, concurrency-safe wrapper around [slog.Logger].
//
// The zero Logger discards everything, so types may embed one and log
// unconditionally.
type Logger struct {
	logger *slog.Logger
	config config
}

// Make returns a Logger writing to w, configured by opts applied over the
// defaults: [DefaultFormat], [DefaultLevel], [DefaultTimeLayout],
// [DefaultCaller] and [DefaultPretty].
func Make(w io.Writer, opts ...Option) Logger {
	cfg := defaultConfig(w).with(opts...)

	return Logger{logger: slog.New(cfg.handler()), config: cfg}
}

// Wrap returns a copy of l reconfigured by opts. Attributes added with
// [Logger.With] are not carried over.
func (l Logger) Wrap(opts ...Option) Logger {
	cfg := l.config
	if l.logger == nil {
		cfg = defaultConfig(nil)
	}

	cfg = cfg.with(opts...)

	return Logger{logger: slog.New(cfg.handler()), config: cfg}
}

// With returns a Logger that adds attrs to every record.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.logger == nil || len(attrs) == 0 {
		return l
	}

	return Logger{
		logger: slog.New(l.logger.Handler().WithAttrs(attrs)),
		config: l.config,
	}
}

// Slog returns the underlying [slog.Logger], or nil for the zero Logger.
func (l Logger) Slog() *slog.Logger { return l.logger }

// Level returns the minimum level of logged records.
func (l Logger) Level() Level {
	if l.logger == nil {
		return DefaultLevel
	}

	return l.config.level
}

// Format returns the record encoding.
func (l Logger) Format() Format {
	if l.logger == nil {
		return DefaultFormat
	}

	return l.config.format
}

// Enabled reports whether a record at level would be written.
func (l Logger) Enabled(ctx context.Context, level Level) bool {
	return l.logger != nil && l.logger.Enabled(ctx, slog.Level(level))
}

// TraceContext logs msg at [LevelTrace].
func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelTrace, msg, attrs)
}

// Trace logs msg at [LevelTrace] with the [DefaultContextProvider] context.
func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelTrace, msg, attrs)
}

// DebugContext logs msg at [LevelDebug].
func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelDebug, msg, attrs)
}

// Debug logs msg at [LevelDebug] with the [DefaultContextProvider] context.
func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelDebug, msg, attrs)
}

// InfoContext logs msg at [LevelInfo].
func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelInfo, msg, attrs)
}

// Info logs msg at [LevelInfo] with the [DefaultContextProvider] context.
func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelInfo, msg, attrs)
}

// WarnContext logs msg at [LevelWarn].
func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelWarn, msg, attrs)
}

// Warn logs msg at [LevelWarn] with the [DefaultContextProvider] context.
func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelWarn, msg, attrs)
}

// ErrorContext logs msg at [LevelError].
func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelError, msg, attrs)
}

// Error logs msg at [LevelError] with the [DefaultContextProvider] context.
func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelError, msg, attrs)
}

// log writes one record. Every exported logging method calls it directly, so
// the caller of that method is always three frames up.
func (l Logger) log(ctx context.Context, level Level, msg string, attrs []slog.Attr) {
	if !l.Enabled(ctx, level) {
		return
	}

	var pc uintptr

	if l.config.caller {
		var pcs [1]uintptr

		// runtime.Callers, log, exported method
		runtime.Callers(3, pcs[:])
		pc = pcs[0]
	}

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pc)
	r.AddAttrs(attrs...)

	_ = l.logger.Handler().Handle(ctx, r)
}
