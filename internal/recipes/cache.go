package recipes

import "sync"

// Cache is an id-keyed memo of recipe records, scoped to one session.
// There is no eviction: the working set is one week's recipes. Writes
// are idempotent per id, so a late fetch overwriting an earlier one is
// harmless.
type Cache struct {
	mu   sync.RWMutex
	byID map[string]*Recipe
}

func NewCache() *Cache {
	return &Cache{byID: make(map[string]*Recipe)}
}

// Get returns the cached record for id, or nil when unresolved.
func (c *Cache) Get(id string) *Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byID[id]
}

// Put stores r under its own id. Nil and id-less records are dropped.
func (c *Cache) Put(r *Recipe) {
	if r == nil || r.ID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[r.ID] = r
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// Lookup adapts the cache to the func form the nutrition aggregator
// consumes.
func (c *Cache) Lookup() func(id string) *Recipe {
	return c.Get
}
