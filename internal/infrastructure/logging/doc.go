// Package logging provides structured logging using uber/zap.
//
// Two modes, selected by LOG_DEV:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Log Levels:
//   - Debug: Verbose debugging information
//   - Info: General informational messages
//   - Warn: Warning messages
//   - Error: Error messages
//   - Fatal: Fatal errors (exits process)
//
// Logs go to stderr so driver output on stdout stays readable.
//
// Example Usage:
//
//	logger := logging.FromConfig(cfg.Logging.Level, cfg.Logging.Development)
//	logger.Info("Registry ready", zap.Int("capacity", 100))
//	logger.Error("Failed to connect", zap.Error(err))
package logging
