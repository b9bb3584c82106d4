package fs

import (
	"context"
	"os"
)

// wraps os.Rename and os.Link with retry logic.
// Rename finalizes copies; Link creates deduplicated snapshots.

func renameWithRetry(ctx context.Context, oldPath, newPath string) error {
	return retry(ctx, "rename", func() error {
		return os.Rename(oldPath, newPath)
	})
}

func linkWithRetry(ctx context.Context, oldPath, newPath string) error {
	return retry(ctx, "link", func() error {
		return os.Link(oldPath, newPath)
	})
}
