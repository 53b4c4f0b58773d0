// Package server assembles the gin router and runs the HTTP listener for
// the file API.
//
// Middleware order: recovery, request id, access log, metrics, CORS, then
// per-client rate limiting when enabled. GET /metrics serves the given
// Prometheus gatherer.
package server
