package gateway

import (
	"sync"
	"time"
)

// Cache keys for the collections the gateway snapshots.
const (
	CacheCatalog = "musics"
	CacheUsers   = "users"
)

// Default freshness windows, matching the backend's update cadence.
const (
	DefaultCatalogTTL = 5 * time.Minute
	DefaultUsersTTL   = 10 * time.Minute
)

type snapshot struct {
	data     any
	storedAt time.Time
	ttl      time.Duration
}

// SnapshotCache is a time-boxed cache for collection snapshots. A snapshot is
// returned as-is (same slice) until its freshness window elapses or a mutation
// invalidates it. The time source is injectable for fake-clock tests.
type SnapshotCache struct {
	mu      sync.Mutex
	now     func() time.Time
	ttls    map[string]time.Duration
	entries map[string]snapshot
}

// NewSnapshotCache creates a cache using the given time source (nil means
// [time.Now]) with default freshness windows for the catalog and users keys.
func NewSnapshotCache(now func() time.Time) *SnapshotCache {
	if now == nil {
		now = time.Now
	}
	return &SnapshotCache{
		now: now,
		ttls: map[string]time.Duration{
			CacheCatalog: DefaultCatalogTTL,
			CacheUsers:   DefaultUsersTTL,
		},
		entries: map[string]snapshot{},
	}
}

// SetTTL overrides the freshness window for a key. Existing snapshots keep the
// window they were stored with.
func (c *SnapshotCache) SetTTL(key string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttls[key] = ttl
}

// Get returns the cached snapshot for key and whether it is still fresh.
func (c *SnapshotCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= entry.ttl {
		return nil, false
	}
	return entry.data, true
}

// Set stores a snapshot under key with the key's configured freshness window.
func (c *SnapshotCache) Set(key string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ttl, ok := c.ttls[key]
	if !ok {
		ttl = DefaultCatalogTTL
	}
	c.entries[key] = snapshot{data: data, storedAt: c.now(), ttl: ttl}
}

// Invalidate clears the snapshot for key so the next read is fresh.
func (c *SnapshotCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidateAll clears every snapshot.
func (c *SnapshotCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]snapshot{}
}
