/*
Package executor runs file operations against the lock registry.

Every public operation follows the same sequence: acquire the lock the
operation needs, do the I/O, release, then write exactly one audit record
whose status is 0 on success or the failure kind's negative code.

Locking:
  - Read, and the source side of Copy, Compress and Decompress: shared
  - Write, Delete: exclusive, creating the entry if needed
  - Rename: exclusive on an already tracked path
  - Metadata: none

Transfer destinations are not locked. Two transfers writing the same
destination race unless atomic transfers are enabled, in which case each
writes a temporary file and renames it into place.

Failures are *OpError values. Match them with errors.Is against ErrIO,
ErrNotFound, ErrShortWrite or the registry sentinels.
*/
package executor
