// Package log provides a thin, concurrency-safe wrapper around log/slog
// with functional-option configuration and an optional colorized text
// handler for interactive use.
//
// The package maintains a default logger used by the package-level
// functions; [Config] reconfigures it in place so flag parsing can adjust
// level, format, and layout before any command runs.
package log
