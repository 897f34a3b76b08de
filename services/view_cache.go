package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ViewCache keeps rendered read views keyed by logical path and variant
// (usually the query string). It holds response bodies, never entities.
type ViewCache struct {
	mu      sync.RWMutex
	entries map[string]map[string][]byte
	gens    map[string]uint64
	epoch   uint64 // bumped by Purge
	group   singleflight.Group
}

func NewViewCache() *ViewCache {
	return &ViewCache{
		entries: map[string]map[string][]byte{},
		gens:    map[string]uint64{},
	}
}

// Render returns the cached body for path/variant or builds it. A body built
// while the path was revalidated or the cache purged is returned but not kept.
func (c *ViewCache) Render(ctx context.Context, path, variant string, build func(context.Context) ([]byte, error)) ([]byte, error) {
	c.mu.RLock()
	body, ok := c.entries[path][variant]
	gen, epoch := c.gens[path], c.epoch
	c.mu.RUnlock()
	if ok {
		return body, nil
	}

	key := fmt.Sprintf("%s?%s#%d.%d", path, variant, epoch, gen)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		body, err := build(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gens[path] == gen && c.epoch == epoch {
			if c.entries[path] == nil {
				c.entries[path] = map[string][]byte{}
			}
			c.entries[path][variant] = body
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// RevalidatePath drops every cached variant of path.
func (c *ViewCache) RevalidatePath(_ context.Context, path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.gens[path]++
	c.mu.Unlock()
}

// Purge drops every cached view.
func (c *ViewCache) Purge() {
	c.mu.Lock()
	n := len(c.entries)
	c.epoch++
	c.entries = map[string]map[string][]byte{}
	c.mu.Unlock()
	log.Printf("View cache purged (%d paths)", n)
}

// Len reports how many variants of path are cached.
func (c *ViewCache) Len(path string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries[path])
}
