package fs

import (
	"context"
	"os"
)

type OSFS struct{}

// the concrete implementation of FS backed by the local OS filesystem.
// Platform-specific details (inode and birth time) are handled in build-tagged files.

func New() *OSFS {
	return &OSFS{}
}

func (o *OSFS) Stat(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}

	ino, links := sysIDs(st)
	return FileInfo{
		Path:    path,
		Size:    st.Size(),
		MTime:   st.ModTime(),
		Birth:   birthTime(path, st),
		Inode:   ino,
		Links:   links,
		Regular: st.Mode().IsRegular(),
	}, nil
}

func (o *OSFS) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

func (o *OSFS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (o *OSFS) Remove(path string) error {
	return os.Remove(path)
}

func (o *OSFS) CopyFile(ctx context.Context, src, dst string) error {
	return copyWithRetry(ctx, o, src, dst)
}

func (o *OSFS) Link(ctx context.Context, oldPath, newPath string) error {
	return linkWithRetry(ctx, oldPath, newPath)
}

// Exists reports whether path can be stat'ed.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
