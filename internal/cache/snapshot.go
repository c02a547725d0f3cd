package cache

import (
	"strconv"
	"time"

	"pots/internal/core"
)

// SnapshotCache keeps derived snapshots keyed by revision. The HTTP layer
// uses it to serve repeated reads of the current view without re-deriving,
// and the export worker uses it when the same revision is replayed.
type SnapshotCache struct {
	lru  *LRU[core.Snapshot]
	stop chan struct{}
	done chan struct{}
}

// NewSnapshotCache returns a cache holding up to maxSize snapshots for ttl
// each, with a background janitor sweeping expired entries every interval.
func NewSnapshotCache(maxSize int, ttl, interval time.Duration) *SnapshotCache {
	c := &SnapshotCache{
		lru:  NewLRU[core.Snapshot](maxSize, ttl),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go c.janitor(interval)
	return c
}

// Get returns the snapshot cached for revision, if any.
func (c *SnapshotCache) Get(revision int64) (core.Snapshot, bool) {
	return c.lru.Get(revisionKey(revision))
}

// Put caches the snapshot derived for revision.
func (c *SnapshotCache) Put(revision int64, d core.Snapshot) {
	c.lru.Set(revisionKey(revision), d)
}

// Invalidate drops every cached snapshot. Called after any mutation so
// stale views are never served.
func (c *SnapshotCache) Invalidate() {
	c.lru.Purge()
}

// Close stops the janitor goroutine.
func (c *SnapshotCache) Close() {
	close(c.stop)
	<-c.done
}

func (c *SnapshotCache) janitor(interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.lru.CleanExpired()
		case <-c.stop:
			return
		}
	}
}

func revisionKey(rev int64) string {
	return strconv.FormatInt(rev, 10)
}
