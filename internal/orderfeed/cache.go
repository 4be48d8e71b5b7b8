// internal/orderfeed/cache.go
package orderfeed

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultStaleTime = 5 * time.Minute
	DefaultGCTime    = 10 * time.Minute
)

type cacheEntry struct {
	pages         []*Page
	updatedAt     time.Time
	invalidated   bool
	observers     int
	inactiveSince time.Time
}

// Cache holds fetched pages per Query and is shared by every Feed built on it.
// An entry is stale StaleTime after its first page was stored and is evicted
// GCTime after its last observer left.
type Cache struct {
	mu        sync.Mutex
	entries   map[Query]*cacheEntry
	staleTime time.Duration
	gcTime    time.Duration
	now       func() time.Time
}

func NewCache() *Cache {
	return NewCacheWithTTL(DefaultStaleTime, DefaultGCTime)
}

func NewCacheWithTTL(staleTime, gcTime time.Duration) *Cache {
	return &Cache{
		entries:   make(map[Query]*cacheEntry),
		staleTime: staleTime,
		gcTime:    gcTime,
		now:       time.Now,
	}
}

// Pages returns a copy of the cached pages for q and whether they are fresh.
func (c *Cache) Pages(q Query) (pages []*Page, fresh bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[q]
	if !ok || len(e.pages) == 0 {
		return nil, false
	}
	return append([]*Page(nil), e.pages...), c.freshLocked(e)
}

// Fresh reports whether q has pages that are neither invalidated nor older
// than the stale time.
func (c *Cache) Fresh(q Query) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[q]
	return ok && len(e.pages) > 0 && c.freshLocked(e)
}

func (c *Cache) freshLocked(e *cacheEntry) bool {
	return !e.invalidated && c.now().Sub(e.updatedAt) < c.staleTime
}

// SetFirst replaces every page of q with first.
func (c *Cache) SetFirst(q Query, first *Page) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(q)
	e.pages = []*Page{first}
	e.updatedAt = c.now()
	e.invalidated = false
}

// Append adds the page fetched with cursor to q. It is dropped unless cursor
// is the cursor of the last cached page, so a page fetched before a refresh
// or by another feed on the same key cannot be stitched on twice.
func (c *Cache) Append(q Query, cursor string, next *Page) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[q]
	if !ok || len(e.pages) == 0 {
		return false
	}
	last := e.pages[len(e.pages)-1]
	if last.NextKey == nil || *last.NextKey != cursor {
		return false
	}
	e.pages = append(e.pages, next)
	return true
}

// Remove discards the pages of q.
func (c *Cache) Remove(q Query) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[q]; ok {
		e.pages = nil
	}
}

// InvalidateAll marks every entry stale without refetching.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		e.invalidated = true
	}
}

func (c *Cache) acquire(q Query) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entryLocked(q).observers++
}

func (c *Cache) release(q Query) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[q]
	if !ok || e.observers == 0 {
		return
	}
	e.observers--
	if e.observers == 0 {
		e.inactiveSince = c.now()
	}
}

func (c *Cache) entryLocked(q Query) *cacheEntry {
	e, ok := c.entries[q]
	if !ok {
		e = &cacheEntry{inactiveSince: c.now()}
		c.entries[q] = e
	}
	return e
}

// Sweep evicts entries without observers that have been inactive for the GC
// time and returns how many were removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	evicted := 0
	for q, e := range c.entries {
		if e.observers == 0 && now.Sub(e.inactiveSince) >= c.gcTime {
			delete(c.entries, q)
			evicted++
		}
	}
	return evicted
}

// Len is the number of tracked keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Run sweeps every interval until ctx is done.
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}
