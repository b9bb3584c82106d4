//go:build linux

package fs

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// birthTime asks statx for the creation time. Filesystems without btime
// support fall back to the modification time.
func birthTime(path string, info os.FileInfo) time.Time {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW, unix.STATX_BTIME, &stx)
	if err != nil || stx.Mask&unix.STATX_BTIME == 0 {
		return info.ModTime()
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
}
