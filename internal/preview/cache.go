package preview

import (
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cyberdeco/bg3kit/internal/handlers"
)

// DefaultCacheCapacity is the default entry limit (spec §4.8).
const DefaultCacheCapacity = 100

// CacheStats tracks basic cache counters.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

type cacheEntry struct {
	record handlers.Record
	mtime  time.Time
	size   int64
}

// Cache is an LRU over preview records keyed by absolute path. A cached
// entry is only served when the file's current mtime and size still match
// what was stat'd when the entry was set; otherwise it's evicted and
// treated as a miss (spec §4.8). Thread-safety is internal (unlike the
// spec's "external" contract) since Go makes a mutex-wrapped cache nearly
// free and callers would otherwise have to duplicate the same lock.
type Cache struct {
	mu      sync.Mutex
	entries *lru.Cache[string, *cacheEntry]

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewCache builds a Cache with the given capacity. capacity <= 0 uses
// DefaultCacheCapacity.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	c := &Cache{}
	c.entries, _ = lru.NewWithEvict[string, *cacheEntry](capacity, c.onEvicted)
	return c
}

// Get returns the cached record for path if present and not stale
// relative to mtime/size.
func (c *Cache) Get(path string, mtime time.Time, size int64) (handlers.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries.Get(path)
	if !ok {
		c.misses.Add(1)
		return handlers.Record{}, false
	}
	if !entry.mtime.Equal(mtime) || entry.size != size {
		c.entries.Remove(path)
		c.misses.Add(1)
		return handlers.Record{}, false
	}

	c.hits.Add(1)
	return entry.record, true
}

// Set stores rec for path, stamping it with the (mtime, size) pair the
// caller observed so a later Get can detect stat drift.
func (c *Cache) Set(path string, rec handlers.Record, mtime time.Time, size int64) {
	rec.CacheMtime = mtime
	rec.CacheSize = size

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(path, &cacheEntry{record: rec, mtime: mtime, size: size})
}

// Invalidate removes a single entry.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Remove(path)
}

// InvalidatePrefix removes every entry whose key starts with dir, in
// O(n) over the current entry count (spec §4.8).
func (c *Cache) InvalidatePrefix(dir string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, key := range c.entries.Keys() {
		if hasPathPrefix(key, dir) {
			c.entries.Remove(key)
			removed++
		}
	}
	return removed
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Stats returns a snapshot of hit/miss/eviction counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

func (c *Cache) onEvicted(_ string, _ *cacheEntry) {
	c.evictions.Add(1)
}

func hasPathPrefix(key, dir string) bool {
	if dir == "" {
		return false
	}
	if key == dir {
		return true
	}
	if len(key) <= len(dir) {
		return false
	}
	if key[:len(dir)] != dir {
		return false
	}
	sep := key[len(dir)]
	return sep == '/' || sep == '\\'
}
