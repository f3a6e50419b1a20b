// ABOUTME: In-memory fetch cache backed by patrickmn/go-cache
// ABOUTME: Entries never expire; the whole cache is dropped once the page is written

package memory

import (
	"context"
	"errors"

	"github.com/patrickmn/go-cache"

	"github.com/ninimihaila/singlepage/core/domain"
	coreerrors "github.com/ninimihaila/singlepage/core/errors"
	"github.com/ninimihaila/singlepage/core/interfaces"
)

var errNilResource = errors.New("cannot store nil resource")

// MemoryCache implements the ResourceCache interface using in-memory storage
type MemoryCache struct {
	items *cache.Cache
}

// NewMemoryCache creates a new in-memory cache instance
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: cache.New(cache.NoExpiration, 0),
	}
}

// Factory returns a constructor usable as interfaces.Dependencies.NewCache
func Factory() func() interfaces.ResourceCache {
	return func() interfaces.ResourceCache {
		return NewMemoryCache()
	}
}

// Get retrieves the resource stored for url
func (c *MemoryCache) Get(ctx context.Context, url string) (*domain.Resource, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	value, ok := c.items.Get(url)
	if !ok {
		return nil, coreerrors.ErrCacheMiss
	}
	return value.(*domain.Resource), nil
}

// Set stores a resource under its URL
func (c *MemoryCache) Set(ctx context.Context, res *domain.Resource) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if res == nil {
		return errNilResource
	}

	// Copy so later changes to the caller's slice do not leak into the cache
	stored := *res
	if res.Body != nil {
		stored.Body = make([]byte, len(res.Body))
		copy(stored.Body, res.Body)
	}

	c.items.Set(res.URL, &stored, cache.NoExpiration)
	return nil
}

// Len returns the number of cached entries
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}
