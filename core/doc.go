// Package core contains the page saving logic of singlepage.
// It has no knowledge of the command line, the concrete HTTP client or the
// cache backend; those arrive through interfaces.Dependencies.
//
// The core package is organized into several sub-packages:
//
// - domain: Rule, Reference, Resource and ImageType
// - resolver: turns attribute values into absolute URLs
// - sniff: identifies image formats from their leading bytes
// - links: walks a parsed page and yields resource references
// - fetch: retrieves referenced URLs concurrently into a fetch cache
// - inline: embeds cached resources into the page
// - pipeline: drives one run from the root page to the written output
// - errors: custom error types separating warnings from fatal errors
// - interfaces: contracts for external dependencies (cache, HTTP, logger)
//
// # Usage Example
//
//	import (
//	    "github.com/ninimihaila/singlepage/core/interfaces"
//	    "github.com/ninimihaila/singlepage/core/pipeline"
//	)
//
//	deps := interfaces.Dependencies{
//	    NewCache:   memory.Factory(),
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	result, err := pipeline.NewService(deps).Save(ctx, "https://example.com/", w)
package core
