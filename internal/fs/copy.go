package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
)

var errSourceChanged = errors.New("source changed during copy")

// copyWithRetry copies src into a hidden temp file next to dst and renames
// it into place, so a snapshot name never refers to a partial copy.
func copyWithRetry(ctx context.Context, f FS, src, dst string) error {
	orig, err := f.Stat(src)
	if err != nil {
		return err
	}

	tmp := tmpPath(dst)
	err = retry(ctx, "copy", func() error {
		return copyChecked(f, src, tmp, orig)
	})
	if err == nil {
		err = renameWithRetry(ctx, tmp, dst)
	}
	if err != nil {
		_ = os.Remove(tmp)
	}
	return err
}

func tmpPath(dst string) string {
	return filepath.Join(filepath.Dir(dst), ".tmp-"+filepath.Base(dst))
}

// copyChecked copies src to tmp and fails if src stops being the file
// described by orig, either before the copy starts or by the time it ends.
func copyChecked(f FS, src, tmp string, orig FileInfo) error {
	check := func() error {
		now, err := f.Stat(src)
		if err != nil {
			return err
		}
		if sourceChanged(orig, now) {
			return errSourceChanged
		}
		return nil
	}

	if err := check(); err != nil {
		return err
	}
	if err := copyContents(src, tmp); err != nil {
		return err
	}
	return check()
}

func sourceChanged(orig, now FileInfo) bool {
	switch {
	case orig.Inode != 0 && now.Inode != 0 && orig.Inode != now.Inode:
		return true
	case now.Size != orig.Size:
		return true
	default:
		return now.MTime.After(orig.MTime)
	}
}

// copyContents writes src to dst, truncating dst, and syncs it to disk.
func copyContents(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
