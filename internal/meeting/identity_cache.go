package meeting

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUIdentityCache is the deployment-wide host identity cache, shared
// across requests and guarded for concurrent use.
type LRUIdentityCache struct {
	cache *lru.Cache[int64, string]
	mu    sync.RWMutex
}

func NewLRUIdentityCache(size int) (*LRUIdentityCache, error) {
	cache, err := lru.New[int64, string](size)
	if err != nil {
		return nil, err
	}
	return &LRUIdentityCache{cache: cache}, nil
}

func (c *LRUIdentityCache) Get(userID int64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.cache.Get(userID)
}

func (c *LRUIdentityCache) Set(userID int64, hostID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Add(userID, hostID)
}
