package cache

import (
	"sync"

	"github.com/picknship/backend/internal/repo"
)

// StoresCache keeps installed stores in memory so the webhook path does
// not hit Postgres for every credential lookup.
type StoresCache struct {
	mu sync.RWMutex
	m  map[string]repo.Store
}

func New() *StoresCache {
	return &StoresCache{m: make(map[string]repo.Store, 64)}
}

func (c *StoresCache) Get(storeID string) (repo.Store, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.m[storeID]
	return s, ok
}

func (c *StoresCache) Set(storeID string, s repo.Store) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[storeID] = s
}

func (c *StoresCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

func (c *StoresCache) Delete(storeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, storeID)
}
