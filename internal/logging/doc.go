// Package logging assembles structured slog loggers and formatting helpers used
// across relnotes.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes helpers so generator code tags log lines with run IDs,
// page kinds, and CVE identifiers under the same keys everywhere. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape as the rest of the system.
package logging
