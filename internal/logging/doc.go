// Package logging assembles the structured slog loggers used across Waypoint.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so run code tags log lines with the
// run ID, step, and entry name consistently. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
