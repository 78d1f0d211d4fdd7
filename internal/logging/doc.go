// Package logging provides structured logging utilities for the calgate server.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (attendee email anonymization, token masking)
//   - Consistent attribute naming across the codebase
//   - Logger adapter interface for flexibility
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "calendar.events.list")
//	logger.Info("listing events",
//	    logging.CalendarID("primary"),
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("attendee added",
//	    logging.Attendee(email))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - Attendee emails are hashed to prevent PII leakage while allowing correlation
//   - Bearer tokens are never logged directly; use SanitizeToken
package logging
