package stats

import (
	"sync"
	"time"

	"github.com/raoulx24/stats-backup/internal/fs"
)

// Cache keeps the last Scan result until the directory is reported dirty.
//
// Freshness is decided by a version counter rather than by comparing wall
// clock stamps: MarkDirty bumps the version, and a scan result is only
// reused while the version it observed before scanning is still current.
// A change that races a scan therefore always forces the next rescan.
type Cache struct {
	fs  fs.FS
	dir string
	now func() time.Time

	mu           sync.Mutex
	version      uint64
	entry        *cacheEntry
	dirChangedAt *time.Time
	scans        uint64
}

type cacheEntry struct {
	stats      Stats
	computedAt time.Time
	version    uint64
}

// NewCache returns an empty cache over dir.
func NewCache(f fs.FS, dir string) *Cache {
	return &Cache{fs: f, dir: dir, now: time.Now}
}

// Get returns cached stats when still fresh and rescans otherwise.
// The error wraps ErrUnavailable when the directory cannot be listed.
func (c *Cache) Get() (Stats, error) {
	c.mu.Lock()
	if c.entry != nil && c.entry.version == c.version {
		s := c.entry.stats
		c.mu.Unlock()
		return s, nil
	}
	observed := c.version
	c.scans++
	c.mu.Unlock()

	s, err := Scan(c.fs, c.dir)
	if err != nil {
		return Stats{}, err
	}

	c.mu.Lock()
	c.entry = &cacheEntry{stats: s, computedAt: c.now(), version: observed}
	c.mu.Unlock()

	return s, nil
}

// MarkDirty records that the directory changed at the given instant.
// It never waits for a scan in progress.
func (c *Cache) MarkDirty(at time.Time) {
	c.mu.Lock()
	c.version++
	c.dirChangedAt = &at
	c.mu.Unlock()
}

// Fresh reports whether the next Get would be served from the cache.
func (c *Cache) Fresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry != nil && c.entry.version == c.version
}

// ComputedAt returns when the cached stats were produced.
func (c *Cache) ComputedAt() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entry == nil {
		return time.Time{}, false
	}
	return c.entry.computedAt, true
}

// DirChangedAt returns the last reported change, if any.
func (c *Cache) DirChangedAt() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dirChangedAt == nil {
		return time.Time{}, false
	}
	return *c.dirChangedAt, true
}

// Scans returns how many directory scans the cache has started.
func (c *Cache) Scans() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scans
}
