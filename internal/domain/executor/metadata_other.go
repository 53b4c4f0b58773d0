//go:build !linux && !darwin && !freebsd

package executor

import (
	"os"
	"time"
)

func changeTime(_ string, info os.FileInfo) time.Time {
	return info.ModTime()
}
