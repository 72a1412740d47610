// Package log provides a simplified structured logging interface based on
// [log/slog].
//
// A [Logger] is a value: options are applied when it is made with [Make] or
// re-derived with [Logger.Wrap], and it can be handed to components that
// want their own sink (the session orchestrator takes one at construction).
// The package also keeps a process-wide default logger configured by the CLI
// through [Config] and used by the package-level functions.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("attached", slog.String("pid", "4242"))
//
// # Configuration
//
//	logger := log.Make(f,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true),
//		log.WithPretty(false))
//
// # Levels
//
// [LevelTrace], [LevelDebug], [LevelInfo], [LevelWarn], and [LevelError].
// Trace sits below slog's Debug and is printed as "TRACE".
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON]. With [WithPretty] enabled both
// are colorized through lipgloss, which falls back to plain text when the
// output is not a terminal.
package log
