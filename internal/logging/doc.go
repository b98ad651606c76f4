// Package logging constructs the slog loggers used across filmlog.
//
// Two output formats are supported: a compact human-readable console
// format for interactive use, and JSON for machine consumption. When a
// data directory is configured, log lines are mirrored to a file there
// in addition to stderr.
package logging
