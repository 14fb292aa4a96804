// Package logger provides structured logging for HireFlow.
//
// It wraps log/slog:
//
//   - logger.go: handler construction, dynamic level, package default
//   - context.go: context-aware logging with request/trace IDs
//   - redact.go: masking of bearer tokens, OTP codes and passwords
package logger
