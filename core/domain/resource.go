// ABOUTME: Resource domain model is a single Fetch Cache entry
// ABOUTME: A resource either carries the fetched body or a failure marker

package domain

// Resource is the outcome of fetching one resolved URL
type Resource struct {
	// URL is the resolved absolute URL the resource was fetched from
	URL string

	// Body holds the raw response bytes on success
	Body []byte

	// ContentType is the Content-Type header sent by the server
	ContentType string

	// StatusCode is the HTTP status, zero when no response was received
	StatusCode int

	// Err is the failure marker; nil means the fetch succeeded
	Err error
}

// Failed reports whether the resource is a failure marker
func (r *Resource) Failed() bool {
	return r == nil || r.Err != nil
}

// Size returns the body length in bytes
func (r *Resource) Size() int {
	if r == nil {
		return 0
	}
	return len(r.Body)
}
