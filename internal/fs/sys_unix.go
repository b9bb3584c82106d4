//go:build unix

package fs

import (
	"os"
	"syscall"
)

// sysIDs returns the inode and hard link count. A snapshot stored as a hard
// link shares its inode with the snapshot it deduplicates against.
func sysIDs(info os.FileInfo) (ino, links uint64) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 1
	}
	return uint64(st.Ino), uint64(st.Nlink)
}
