package recipes

import (
	"context"
	"log"
	"sync"
)

// Fetcher fetches one recipe record from the catalog.
type Fetcher interface {
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
}

// Resolver fills the cache for a set of recipe ids with best-effort
// parallel fetches. A failed fetch only costs that entry its display
// enrichment; it never fails the surrounding load.
type Resolver struct {
	cache   *Cache
	fetcher Fetcher
}

func NewResolver(cache *Cache, fetcher Fetcher) *Resolver {
	return &Resolver{cache: cache, fetcher: fetcher}
}

// Resolve fetches every id not already cached, in parallel, and returns
// the number of records resolved. Failures are logged and skipped.
func (r *Resolver) Resolve(ctx context.Context, ids []string) int {
	var wg sync.WaitGroup
	var mu sync.Mutex
	resolved := 0

	for _, id := range ids {
		if id == "" || r.cache.Get(id) != nil {
			continue
		}
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			rec, err := r.fetcher.GetRecipe(ctx, id)
			if err != nil || rec == nil {
				log.Printf("WARN recipes: fetch %s failed: %v", id, err)
				return
			}
			if rec.ID == "" {
				rec.ID = id
			}
			r.cache.Put(rec)
			mu.Lock()
			resolved++
			mu.Unlock()
		}(id)
	}

	wg.Wait()
	return resolved
}
