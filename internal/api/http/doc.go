// Package http provides the gin handlers for the file operations API.
//
// Endpoints:
//   - GET /health, GET /registry, GET /audit?limit=N
//   - POST /files/{read,write,delete,rename,copy,metadata,compress,decompress}
//
// Request bodies are JSON. File paths are confined to the root given to
// NewHandlers: relative paths are taken from it, and paths that lead
// outside it, directly or through a symlink, fail as invalid paths. Failures carry the audit status code and the
// failure kind, and map to HTTP status: not found 404, tracking conflicts
// 409, registry full 507, invalid path 400, closed registry 503, anything
// else 500.
//
// Example Usage:
//
//	handlers, err := http.NewHandlers(exec, journal.New(), "/srv/files", "file_operations.log", logger)
//	if err != nil {
//		return err
//	}
//	handlers.Register(router)
package http
