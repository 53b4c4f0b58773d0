/*
Command fileops runs concurrent workers against a shared file.

Each worker performs one operation (read, write, metadata, copy, compress,
decompress, delete or rename) through the lock registry, and every call
leaves one line in the audit log.

Usage:

	fileops [flags]

Without -n or -o the command prompts for the worker count and one
operation per worker. With --serve it also exposes the same operations
over HTTP until interrupted.

Configuration is read from the environment (FILEOPS_*, LOG_LEVEL, HOST,
PORT). Flags override the matching settings.
*/
package main
