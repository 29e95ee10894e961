package cache

import (
	"sync"
	"time"
)

// Timed is a cache that invalidates elements after they go unused for a TTL.
// It is safe for concurrent use.
type Timed[V any] struct {
	ttl   time.Duration
	mu    sync.Mutex
	cache map[string]element[V]
}

// element holds a value with the last time it was touched.
type element[V any] struct {
	value   V
	touched time.Time
}

// NewTimed creates a new Timed cache where elements will be invalidated after
// sitting unused for ttl.
func NewTimed[V any](ttl time.Duration) *Timed[V] {
	return &Timed[V]{
		ttl:   ttl,
		cache: make(map[string]element[V]),
	}
}

// GetOrCreate returns the live value for key, storing create() if there is
// none. Either way the key's TTL is refreshed.
func (c *Timed[V]) GetOrCreate(key string, create func() V) V {
	return c.getOrCreate(key, create, time.Now())
}

// getOrCreate performs GetOrCreate's work with the wall clock factored out.
func (c *Timed[V]) getOrCreate(key string, create func() V, t time.Time) V {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.get(key, t); ok {
		return v
	}
	v := create()
	c.set(key, v, t)
	return v
}

// set stores val as touched at t. The caller holds mu.
func (c *Timed[V]) set(key string, val V, t time.Time) {
	c.cache[key] = element[V]{
		value:   val,
		touched: t,
	}
}

// get is like set in that the time is factored out. Expired elements are
// dropped, live ones are touched at t.
func (c *Timed[V]) get(key string, t time.Time) (value V, ok bool) {
	// check if the element is in memory
	el, ok := c.cache[key]
	if !ok {
		return value, false
	}

	// in memory elements might still be invalid
	if elapsed := t.Sub(el.touched); elapsed > c.ttl {
		delete(c.cache, key)
		return value, false
	}

	el.touched = t
	c.cache[key] = el
	return el.value, true
}

// Sweep drops every expired element and returns how many remain.
func (c *Timed[V]) Sweep() int {
	return c.sweep(time.Now())
}

func (c *Timed[V]) sweep(t time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, el := range c.cache {
		if t.Sub(el.touched) > c.ttl {
			delete(c.cache, key)
		}
	}
	return len(c.cache)
}
