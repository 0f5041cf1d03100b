// Package cache is a small in-process read-through cache whose entries expire after a TTL
// or when one of their tags is invalidated.
package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader computes the value of a missing entry.
type Loader func(ctx context.Context) (interface{}, error)

type (
	entry struct {
		value     interface{}
		tags      []string
		gens      []uint64 // generation of each tag when the load started
		expiresAt time.Time
	}

	Cache struct {
		mu      sync.Mutex
		ttl     time.Duration
		entries map[string]entry
		gens    map[string]uint64
		group   singleflight.Group
		nowFunc func() time.Time
	}
)

// New returns a cache whose entries live at most ttl. A ttl <= 0 disables expiry.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
		nowFunc: time.Now,
	}
}

// Get returns the cached value for key, or loads it. Concurrent misses on the same key
// (and tag generations) share a single load.
// Cached values are shared between callers and must not be modified.
func (c *Cache) Get(ctx context.Context, key string, tags []string, load Loader) (interface{}, error) {
	c.mu.Lock()
	if v, ok := c.lookup(key); ok {
		c.mu.Unlock()
		return v, nil
	}
	gens := c.snapshot(tags)
	c.mu.Unlock()

	v, err, _ := c.group.Do(flightKey(key, gens), func() (interface{}, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, tags, gens, v)
		return v, nil
	})
	return v, err
}

// InvalidateTag marks every entry stored under tag as stale.
func (c *Cache) InvalidateTag(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[tag]++
	for key, e := range c.entries {
		for _, t := range e.tags {
			if t == tag {
				delete(c.entries, key)
				break
			}
		}
	}
}

// lookup must be called with c.mu held.
func (c *Cache) lookup(key string) (interface{}, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && !c.nowFunc().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	for i, tag := range e.tags {
		if c.gens[tag] != e.gens[i] {
			delete(c.entries, key)
			return nil, false
		}
	}
	return e.value, true
}

// snapshot must be called with c.mu held.
func (c *Cache) snapshot(tags []string) []uint64 {
	gens := make([]uint64, len(tags))
	for i, tag := range tags {
		gens[i] = c.gens[tag]
	}
	return gens
}

// store drops values loaded before one of their tags got invalidated.
func (c *Cache) store(key string, tags []string, gens []uint64, v interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, tag := range tags {
		if c.gens[tag] != gens[i] {
			return
		}
	}
	c.entries[key] = entry{
		value:     v,
		tags:      append([]string(nil), tags...),
		gens:      gens,
		expiresAt: c.nowFunc().Add(c.ttl),
	}
}

func flightKey(key string, gens []uint64) string {
	var b strings.Builder
	b.WriteString(key)
	for _, g := range gens {
		b.WriteByte('@')
		b.WriteString(strconv.FormatUint(g, 10))
	}
	return b.String()
}
