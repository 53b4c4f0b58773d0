//go:build linux || darwin || freebsd

package executor

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// changeTime returns the inode change time, falling back to the
// modification time if the second stat fails.
func changeTime(path string, info os.FileInfo) time.Time {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return info.ModTime()
	}
	return time.Unix(st.Ctim.Unix())
}
