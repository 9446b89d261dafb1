// Package cache keeps recent kintone responses so tools can query them again
// without repeating the request.
package cache

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/usestring/kintone-mcp/internal/capture"
)

// ResponseCache provides thread-safe LRU caching for captured responses.
type ResponseCache struct {
	cache *lru.Cache[string, *capture.Captured]
}

// NewResponseCache creates a new LRU cache with the specified maximum number of items.
func NewResponseCache(maxItems int) (*ResponseCache, error) {
	c, err := lru.New[string, *capture.Captured](maxItems)
	if err != nil {
		return nil, err
	}
	return &ResponseCache{cache: c}, nil
}

// Put stores a response, assigning it a new id when it has none, and returns the id.
func (c *ResponseCache) Put(resp *capture.Captured) string {
	if resp.ID == "" {
		resp.ID = uuid.NewString()
	}
	c.cache.Add(resp.ID, resp)
	return resp.ID
}

// Get retrieves a response by id.
// Returns the response and true if found, nil and false otherwise.
func (c *ResponseCache) Get(id string) (*capture.Captured, bool) {
	return c.cache.Get(id)
}

// Len returns the current number of items in the cache.
func (c *ResponseCache) Len() int {
	return c.cache.Len()
}
