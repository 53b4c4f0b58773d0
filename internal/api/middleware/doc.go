// Package middleware provides the gin middleware in front of the file API:
// CORS, per-client and global rate limiting, request ids and access logs.
package middleware
