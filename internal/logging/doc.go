// Package logging assembles structured slog loggers and formatting helpers used
// across cutlist.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and tags records logged with a context with the review session,
// media stem and correlation ID stored there by internal/services. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
package logging
