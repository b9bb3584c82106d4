package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.db")
	dst := filepath.Join(dir, "dst.db")
	writeFile(t, src, "hello snapshot")

	require.NoError(t, New().CopyFile(context.Background(), src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello snapshot", string(got))

	_, err = os.Stat(tmpPath(dst))
	assert.True(t, os.IsNotExist(err), "temp file must not survive")
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.db")

	err := New().CopyFile(context.Background(), filepath.Join(dir, "nope"), dst)
	require.Error(t, err)

	_, err = os.Stat(dst)
	assert.True(t, os.IsNotExist(err))
}

func TestLink_SharesInode(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "same bytes")

	f := New()
	require.NoError(t, f.Link(context.Background(), a, b))

	ia, err := f.Stat(a)
	require.NoError(t, err)
	ib, err := f.Stat(b)
	require.NoError(t, err)

	if ia.Inode != 0 {
		assert.Equal(t, ia.Inode, ib.Inode)
		assert.Equal(t, uint64(2), ib.Links)
	}
	assert.Equal(t, ia.Size, ib.Size)
	assert.True(t, ib.Regular)
}

func TestLink_ExistingTargetIsPermanent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	writeFile(t, a, "x")
	writeFile(t, b, "y")

	err := New().Link(context.Background(), a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed permanently")
}

func TestStat_BirthTimeSet(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "f")
	writeFile(t, p, "x")

	info, err := New().Stat(p)
	require.NoError(t, err)
	assert.False(t, info.Birth.IsZero())
	assert.WithinDuration(t, time.Now(), info.Birth, time.Hour)
}

func TestRemoveAndReadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a"), "x")
	writeFile(t, filepath.Join(dir, "b"), "y")

	f := New()
	require.NoError(t, f.Remove(filepath.Join(dir, "a")))

	entries, err := f.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].Name())

	assert.True(t, Exists(filepath.Join(dir, "b")))
	assert.False(t, Exists(filepath.Join(dir, "a")))
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	old := retryBase
	retryBase = time.Millisecond
	t.Cleanup(func() { retryBase = old })

	calls := 0
	err := retry(context.Background(), "op", func() error {
		calls++
		if calls < 3 {
			return syscall.EBUSY
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_GivesUp(t *testing.T) {
	old := retryBase
	retryBase = time.Millisecond
	t.Cleanup(func() { retryBase = old })

	calls := 0
	err := retry(context.Background(), "op", func() error {
		calls++
		return syscall.EAGAIN
	})

	require.Error(t, err)
	assert.Equal(t, maxRetries, calls)
	assert.True(t, errors.Is(err, syscall.EAGAIN))
}

func TestRetry_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry(ctx, "op", func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, retryBase, backoff(1))
	assert.Equal(t, 4*retryBase, backoff(3))
}

func TestCopyFile_OverwritesStaleTemp(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.db")
	dst := filepath.Join(dir, "dst.db")
	writeFile(t, src, "new")
	writeFile(t, tmpPath(dst), "leftover from a crash, longer than src")

	require.NoError(t, New().CopyFile(context.Background(), src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestSourceChanged(t *testing.T) {
	now := time.Now()
	base := FileInfo{Size: 10, MTime: now, Inode: 7}

	assert.False(t, sourceChanged(base, base))
	assert.True(t, sourceChanged(base, FileInfo{Size: 11, MTime: now, Inode: 7}))
	assert.True(t, sourceChanged(base, FileInfo{Size: 10, MTime: now.Add(time.Second), Inode: 7}))
	assert.True(t, sourceChanged(base, FileInfo{Size: 10, MTime: now, Inode: 8}))
}
