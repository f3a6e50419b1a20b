// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package.
//
// - cache/memory: fetch cache backed by go-cache, one instance per run
// - http/standard: net/http client with bounded retry and optional rate limiting
// - logger/standard: logrus backed structured logger
//
// # Cache
//
//	newCache := memory.Factory()
//	cache := newCache()
//	err := cache.Set(ctx, &domain.Resource{URL: u, Body: body})
//	res, err := cache.Get(ctx, u)
//
// # HTTP Client
//
//	client := standard.NewStandardHTTPClient(standard.Config{
//	    Timeout:     30 * time.Second,
//	    MaxAttempts: 2,
//	    RateLimit:   5,
//	})
//	resp, err := client.Get(ctx, "https://example.com/app.js")
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # Logger
//
//	logger := standard.NewStandardLogger(os.Stderr, "info")
//	logger.Info("Fetched resource", map[string]interface{}{
//	    "url":   "https://example.com/app.js",
//	    "bytes": 4096,
//	})
package infrastructure
