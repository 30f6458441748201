package service

import (
	"sync"
	"time"
)

// TTLCache holds a single value for ttl after it was last set.
type TTLCache[T any] struct {
	mu       sync.RWMutex
	value    T
	set      bool
	cachedAt time.Time
	ttl      time.Duration
	now      func() time.Time
}

func NewTTLCache[T any](ttl time.Duration) *TTLCache[T] {
	return &TTLCache[T]{ttl: ttl, now: time.Now}
}

func (c *TTLCache[T]) Get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.set || c.now().Sub(c.cachedAt) > c.ttl {
		var zero T
		return zero, false
	}
	return c.value, true
}

func (c *TTLCache[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
	c.set = true
	c.cachedAt = c.now()
}

func (c *TTLCache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.set = false
}
