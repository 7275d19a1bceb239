package lookupcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes the result of a lookup by key for a fixed ttl, concurrent
// misses on the same key share a single call to the loader.
type Cache[V any] struct {
	entries *expirable.LRU[string, V]
	group   singleflight.Group
}

func New[V any](size int, ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		entries: expirable.NewLRU[string, V](size, nil, ttl),
	}
}

// loads are shared between callers so they run detached from the request
// that started them
const loadTimeout = time.Second * 30

type Loader[V any] func(ctx context.Context) (V, error)

// Get returns the cached value of `key` or calls `load`. errors are never
// cached. `cached` reports whether the value came from the cache.
func (c *Cache[V]) Get(ctx context.Context, key string, load Loader[V]) (value V, cached bool, err error) {
	hit, ok := c.entries.Get(key)
	if ok {
		return hit, true, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		v, err := load(loadCtx)
		if err != nil {
			return v, err
		}
		c.entries.Add(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return result.(V), false, nil
}

func (c *Cache[V]) Len() int {
	return c.entries.Len()
}

func (c *Cache[V]) Purge() {
	c.entries.Purge()
}
