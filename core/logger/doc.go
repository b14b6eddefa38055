// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and integrates with both the batch CLI and the
// Fiber trigger server.
//
// # Context Awareness
//
// Every reconciliation run gets a unique run ID; WithRunID attaches it so
// all log lines of one pass can be correlated. In serve mode, WithRayID
// extracts the per-request RayID from a Fiber context the same way.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
package logger
