package codegen

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/roach88/scenegen/internal/ir"
)

// DefaultCacheSize is the number of contexts a Cache keeps by default.
const DefaultCacheSize = 256

// Cache memoizes Build by the exact encoded scene content. It is safe for concurrent use.
// Cached contexts are shared between callers and must be treated as
// read-only.
type Cache struct {
	contexts *lru.Cache[string, *Context]
}

// NewCache returns a cache holding at most size contexts.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	contexts, err := lru.New[string, *Context](size)
	if err != nil {
		return nil, fmt.Errorf("create context cache: %w", err)
	}
	return &Cache{contexts: contexts}, nil
}

// Build returns the context for scene, building it on a miss.
// The error is non-nil only if the scene cannot be encoded.
func (c *Cache) Build(scene *ir.SceneStructure) (*Context, error) {
	id, err := ir.ContentHash(scene)
	if err != nil {
		return nil, err
	}
	if ctx, ok := c.contexts.Get(id); ok {
		return ctx, nil
	}
	ctx := Build(scene)
	c.contexts.Add(id, ctx)
	return ctx, nil
}

// Len returns the number of cached contexts.
func (c *Cache) Len() int {
	return c.contexts.Len()
}

// Purge drops every cached context.
func (c *Cache) Purge() {
	c.contexts.Purge()
}
