// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("bundle loaded", slog.Int("messages", 12))
//
// The zero [Logger] discards all output, which makes it a safe default for
// library components that accept an optional logger.
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// # Levels
//
// In addition to the [log/slog] levels, the package defines [LevelTrace]
// for very verbose diagnostics such as per-entry parser output.
//
// # Output Formats
//
// Two output formats are supported: [FormatText] (default) and
// [FormatJSON]. Text output is styled for terminals unless disabled with
// [WithPretty]; styling is dropped automatically when the writer is not a
// terminal.
//
// # Package-level Logger
//
// The package-level functions ([Info], [Debug], and so on) write through a
// default logger that can be reconfigured with [Config] or replaced with
// [SetDefault].
package log
