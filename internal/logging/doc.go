// Package logging assembles structured slog loggers and formatting helpers used
// across phototools.
//
// It owns the console and JSON handlers, maps level names (including the extra
// trace level used for per-file resolution detail) and exposes context-aware
// helpers that tag log lines with the run identifier and the file in flight.
// A no-op logger is provided for tests and for wiring code that has no logger.
package logging
