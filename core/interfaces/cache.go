// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"

	"github.com/ninimihaila/singlepage/core/domain"
)

// ResourceCache maps resolved URLs to fetched resources for a single run.
// It is written by the fetcher during the fetch phase and only read afterwards.
//
// Example usage:
//
//	cache := someCache // implements ResourceCache
//
//	// Store a fetched resource (or a failure marker)
//	err := cache.Set(ctx, &domain.Resource{URL: u, Body: body})
//
//	// Retrieve it while inlining
//	res, err := cache.Get(ctx, u)
//	if err != nil {
//		// errors.ErrCacheMiss
//	}
type ResourceCache interface {
	// Get retrieves the resource stored for url.
	// Returns errors.ErrCacheMiss if nothing was stored.
	Get(ctx context.Context, url string) (*domain.Resource, error)

	// Set stores res under res.URL, replacing any previous entry.
	Set(ctx context.Context, res *domain.Resource) error

	// Len returns the number of stored entries, failures included.
	Len() int
}
