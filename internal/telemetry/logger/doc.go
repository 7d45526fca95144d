// Package logger provides structured logging for atomsnap.
//
// It wraps the standard library log/slog:
//
//   - JSON structured logging (default) or logfmt-style text
//   - Runtime level changes (config reload)
//   - Context-aware logging with run ID propagation
//
// Components that accept a *slog.Logger get it from Logger.Slog, so a
// single handler and level variable serve the whole process.
package logger
