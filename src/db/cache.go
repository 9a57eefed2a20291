package db

import (
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// One shared ristretto cache with a key registry per resource kind, so
// every cached listing of a kind can be dropped when that kind mutates.
var (
	Cache *ristretto.Cache

	AccountCacheKeys     = newKeyRegistry()
	CategoryCacheKeys    = newKeyRegistry()
	TransactionCacheKeys = newKeyRegistry()
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000,
		MaxCost:     10000,
		BufferItems: 64,
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

type keyRegistry struct {
	mu sync.Mutex
	m  map[string]struct{}
}

func newKeyRegistry() *keyRegistry {
	return &keyRegistry{m: make(map[string]struct{})}
}

func (r *keyRegistry) Set(key string, value interface{}) {
	r.mu.Lock()
	r.m[key] = struct{}{}
	r.mu.Unlock()
	Cache.Set(key, value, 1)
}

func (r *keyRegistry) Get(key string) (interface{}, bool) {
	return Cache.Get(key)
}

func (r *keyRegistry) Del(key string) {
	r.mu.Lock()
	delete(r.m, key)
	r.mu.Unlock()
	Cache.Del(key)
}

// ClearAll drops every key registered for this resource kind.
func (r *keyRegistry) ClearAll() {
	r.mu.Lock()
	for key := range r.m {
		Cache.Del(key)
	}
	r.m = make(map[string]struct{})
	r.mu.Unlock()
}
