// Package fs defines the filesystem abstraction used by the backup engine.
// It provides the FS interface and the FileInfo type shared across the system.
package fs

import (
	"context"
	"os"
	"time"
)

// FileInfo is the subset of file metadata the engine cares about.
// Birth is the filesystem creation time when the platform exposes it,
// otherwise the modification time.
type FileInfo struct {
	Path    string
	Size    int64
	MTime   time.Time
	Birth   time.Time
	Inode   uint64
	Links   uint64
	Regular bool
}

type FS interface {
	Stat(path string) (FileInfo, error)
	ReadDir(path string) ([]os.DirEntry, error)
	CopyFile(ctx context.Context, src, dst string) error
	Link(ctx context.Context, oldPath, newPath string) error
	Remove(path string) error
	MkdirAll(path string) error
}
