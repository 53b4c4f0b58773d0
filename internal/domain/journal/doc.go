// Package journal appends lines to and streams lines from text files.
//
// Writers to the same journal are serialized, so concurrent appends never
// interleave. The audit log is written by package audit, not here; cmd
// uses a journal to replay it.
package journal
