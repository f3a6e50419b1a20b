// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the page saving pipeline

package interfaces

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// NewCache creates an empty fetch cache; one is created per saved page
	NewCache func() ResourceCache

	// HTTPClient provides HTTP request functionality
	HTTPClient HTTPClient

	// Logger provides structured logging
	Logger Logger
}
