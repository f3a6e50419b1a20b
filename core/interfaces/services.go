// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines contracts between the fetch, inline and pipeline stages

package interfaces

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// ResourceFetcher retrieves a batch of URLs into a fresh cache
type ResourceFetcher interface {
	FetchAll(ctx context.Context, urls []string) (ResourceCache, error)
}

// InlineReport summarizes one inlining pass over a document
type InlineReport struct {
	Inlined  int
	Skipped  int
	Warnings []string
}

// Inliner embeds cached resources into a document
type Inliner interface {
	InlineAll(ctx context.Context, doc *goquery.Document, base string, cache ResourceCache) InlineReport
}
