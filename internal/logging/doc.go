// Package logging assembles structured slog loggers and formatting helpers used
// across reelmatch.
//
// It owns the console/JSON handlers, centralizes level and output plumbing, and
// exposes context-aware helpers so HTTP handlers and CLI commands tag log lines
// with request IDs automatically. Console output is colourised only when the
// destination is a terminal. A no-op logger is provided for tests and wiring
// code that cannot fail.
package logging
