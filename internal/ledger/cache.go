package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache holds one value loaded on demand and reused for ttl. Concurrent
// refreshes share a single load. When a refresh fails and an earlier value
// exists, the earlier value is served.
type Cache[T any] struct {
	load   func(ctx context.Context) (T, error)
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
	group  singleflight.Group

	mu        sync.Mutex
	value     T
	fetchedAt time.Time
	valid     bool
	gen       uint64
}

// NewCache creates a Cache around load. A zero ttl disables reuse.
func NewCache[T any](
	load func(ctx context.Context) (T, error),
	ttl time.Duration,
	now func() time.Time,
	logger *slog.Logger,
) *Cache[T] {
	return &Cache[T]{
		load:   load,
		ttl:    ttl,
		now:    now,
		logger: logger,
	}
}

// Get returns the cached value when it is younger than ttl and loads it
// otherwise.
func (c *Cache[T]) Get(ctx context.Context) (T, error) {
	c.mu.Lock()
	if c.valid && c.now().Sub(c.fetchedAt) < c.ttl {
		v := c.value
		c.mu.Unlock()
		return v, nil
	}
	gen := c.gen
	c.mu.Unlock()

	v, err, _ := c.group.Do("load", func() (any, error) {
		v, err := c.load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen == gen {
			c.value = v
			c.fetchedAt = c.now()
			c.valid = true
		}
		return v, nil
	})

	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.valid {
			c.logger.Warn("cache refresh failed, serving stale value", "error", err)
			return c.value, nil
		}
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate forces the next Get to load. A load already in flight when
// Invalidate is called does not repopulate the cache.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.gen++
}

// Age reports how long ago the cached value was loaded. It returns false
// when nothing is cached.
func (c *Cache[T]) Age() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid {
		return 0, false
	}
	return c.now().Sub(c.fetchedAt), true
}
