// Package log is a thin, immutable layer over [log/slog].
//
// A [Logger] is configured once with functional options and never changes;
// [Logger.Wrap] and [Logger.With] return new loggers. The zero Logger
// discards every record.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON))
//	logger.Info("evaluated", slog.String("file", "default.nix"))
//
// # Levels
//
// Besides the four slog levels the package defines [LevelTrace], used for
// per-token and per-node detail that is too noisy for debugging sessions.
//
// # Formats
//
// [FormatText] writes key=value pairs and [FormatJSON] one object per record.
// With [WithPretty] enabled, text output is colored when written to a
// terminal and JSON output is indented.
//
// # Package-level logging
//
// The functions [Info], [Warn] and friends log through a package-level Logger
// writing to standard error, reconfigured by [Config]. Functions and methods
// without a context argument use [DefaultContextProvider].
package log
