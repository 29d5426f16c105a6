// Package logging builds the slog loggers used by the daemon and CLI.
//
// It provides a console handler for interactive use, a JSON handler for
// machine-readable logs, and small attr helpers so call sites stay terse.
// Loggers write to stdout/stderr plus an optional log file under the
// configured log directory.
package logging
