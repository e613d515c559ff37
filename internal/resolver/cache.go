package resolver

import (
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	defaultCacheTTL        = 600 * time.Second
	defaultCacheMaxEntries = 1000
	cacheEvictFrac         = 0.2
)

type cacheEntry struct {
	result    *ManyResult
	timestamp time.Time
}

// resultCache is the bounded, TTL'd searchMany result cache (§4.8): entries
// expire after ttl; once over maxEntries the oldest 20% are evicted by
// timestamp. Safe for concurrent use by the worker-pool dispatch variant.
type resultCache struct {
	mu         sync.Mutex
	entries    map[uint64]cacheEntry
	ttl        time.Duration
	maxEntries int
}

func newResultCache(ttl time.Duration, maxEntries int) *resultCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = defaultCacheMaxEntries
	}
	return &resultCache{entries: make(map[uint64]cacheEntry), ttl: ttl, maxEntries: maxEntries}
}

// cacheKey hashes the sorted query paths, duplicates included (§4.8:
// "hash(sorted(queryPaths))").
func cacheKey(queryPaths []string) uint64 {
	sorted := append([]string{}, queryPaths...)
	sort.Strings(sorted)

	h := xxhash.New()
	for _, p := range sorted {
		h.WriteString(p)
		h.Write([]byte{0})
	}
	return h.Sum64()
}

func (c *resultCache) get(key uint64) (*ManyResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.result, true
}

// put inserts atomically; a cancelled searchMany must never leave the cache
// partially populated, so callers only invoke put once the full response is
// assembled (§5 Cancellation).
func (c *resultCache) put(key uint64, result *ManyResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{result: result, timestamp: time.Now()}
	if len(c.entries) <= c.maxEntries {
		return
	}
	c.evictOldestLocked()
}

func (c *resultCache) evictOldestLocked() {
	type ts struct {
		key uint64
		at  time.Time
	}
	all := make([]ts, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, ts{key: k, at: e.timestamp})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].at.Before(all[j].at) })

	evictCount := int(float64(len(all)) * cacheEvictFrac)
	for i := 0; i < evictCount; i++ {
		delete(c.entries, all[i].key)
	}
}

func (c *resultCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
