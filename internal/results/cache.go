package results

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

type cacheEntry struct {
	table   *Table
	modTime time.Time
	size    int64
	expires time.Time
}

// Cache keeps parsed tables in memory. An entry is reloaded when the file
// changes on disk or its TTL has passed. A nil *Cache loads every time.
type Cache struct {
	mu    sync.Mutex
	store map[string]*cacheEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		store: map[string]*cacheEntry{},
		ttl:   ttl,
		now:   time.Now,
	}
}

// Load is results.Load through the cache.
func (c *Cache) Load(outputDir string) (*Table, error) {
	if c == nil {
		return Load(outputDir)
	}
	path := filepath.Join(outputDir, FileName)
	fi, err := os.Stat(path)
	if err != nil {
		return Load(outputDir)
	}

	c.mu.Lock()
	e, ok := c.store[path]
	if ok && c.now().Before(e.expires) && e.modTime.Equal(fi.ModTime()) && e.size == fi.Size() {
		c.mu.Unlock()
		return e.table, nil
	}
	c.mu.Unlock()

	t, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.store[path] = &cacheEntry{
		table:   t,
		modTime: fi.ModTime(),
		size:    fi.Size(),
		expires: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
	return t, nil
}

// Forget drops the table for outputDir.
func (c *Cache) Forget(outputDir string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, filepath.Join(outputDir, FileName))
}

// Prune removes expired entries.
func (c *Cache) Prune() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.store {
		if !now.Before(e.expires) {
			delete(c.store, k)
		}
	}
}

// Len is the number of cached tables.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}
