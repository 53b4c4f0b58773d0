// Package audit records every file operation attempt to an append-only log.
//
// Line format:
//
//	[Mon Jan  2 15:04:05 2006] Operation: write, File: data.txt, Status: 0
//
// The log is opened in append mode for each record and written with a single
// write under one process-wide mutex. Open or write failures are reported to
// the optional error handler and otherwise ignored; they never change the
// result of the operation being recorded.
package audit
