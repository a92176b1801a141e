package search

import "sync"

// queryCache is a bounded cache of ranked result lists keyed by normalized
// query. Eviction is strict FIFO by insertion order — not LRU — which bounds
// memory over a long session without bookkeeping on the hit path. A mutex
// guards both map and order so concurrent callers preserve the FIFO invariant.
type queryCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string][]Result
	order    []string // insertion order, oldest first
}

// newQueryCache creates a cache with the given capacity.
// capacity <= 0 disables caching entirely.
func newQueryCache(capacity int) *queryCache {
	return &queryCache{
		capacity: capacity,
		entries:  make(map[string][]Result),
	}
}

func (c *queryCache) get(key string) ([]Result, bool) {
	if c.capacity <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	results, ok := c.entries[key]
	return results, ok
}

func (c *queryCache) put(key string, results []Result) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		// Refresh content, keep the original insertion slot.
		c.entries[key] = results
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = results
	c.order = append(c.order, key)
}

// len returns the number of cached queries.
func (c *queryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
