package lux

import (
	"log/slog"

	"github.com/gogpu/lux/internal/logging"
)

// SetLogger configures the logger for lux and all its sub-packages.
// By default, lux produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by lux:
//   - [slog.LevelDebug]: internal diagnostics (drain sizes, upload timings)
//   - [slog.LevelInfo]: lifecycle events (device selected, session started)
//   - [slog.LevelWarn]: non-fatal issues (cancel after stop, write failures)
//
// Example:
//
//	// Enable info-level logging to stderr:
//	lux.SetLogger(slog.Default())
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

// Logger returns the current logger used by lux. Sub-packages share the
// same logger configuration without introducing import cycles.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
