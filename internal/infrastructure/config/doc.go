// Package config provides 12-factor configuration management for the file
// operations service.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Registry: Lock registry capacity
//   - Executor: Chunk size, file mode, codec, atomic transfers
//   - Audit: Audit log location
//   - Logging: Log level and output format
//   - Server: Optional HTTP API (enabled, host, port)
//   - RateLimit: Per-IP rate limiting for the HTTP API
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Tracking up to %d paths\n", cfg.Registry.Capacity)
//
// Environment Variables:
//   - FILEOPS_REGISTRY_CAPACITY, FILEOPS_CHUNK_SIZE, FILEOPS_FILE_MODE
//   - FILEOPS_ATOMIC_TRANSFERS, FILEOPS_CODEC, FILEOPS_AUDIT_LOG
//   - LOG_LEVEL, LOG_DEV
//   - FILEOPS_HTTP_ENABLED, HOST, PORT
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
