// ABOUTME: Custom error types for the page saving pipeline
// ABOUTME: Separates per-resource errors (downgraded to warnings) from fatal run errors

package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrCacheMiss is returned when a URL has no entry in the fetch cache
	ErrCacheMiss = errors.New("cache: key not found")

	// ErrUnsupportedScheme is returned for URLs that cannot be fetched over HTTP
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")

	// ErrBinaryContent is returned when text content was expected but binary data was fetched
	ErrBinaryContent = errors.New("content is not text")

	// ErrBodyTooLarge is returned when a response exceeds the configured size limit
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrUnexpectedContent is returned when a resource's declared type cannot fill the referencing element
	ErrUnexpectedContent = errors.New("unexpected content type")
)

// ResolutionError represents a reference that could not be turned into an absolute URL
type ResolutionError struct {
	Raw  string
	Base string
	Err  error
}

// Error implements the error interface
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %q against %q: %v", e.Raw, e.Base, e.Err)
}

// Unwrap returns the underlying cause
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// FetchError represents a failed resource fetch
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause
func (e *FetchError) Unwrap() error {
	return e.Err
}

// InlineError represents a fetched resource that could not be embedded
type InlineError struct {
	URL  string
	Kind string
	Err  error
}

// Error implements the error interface
func (e *InlineError) Error() string {
	return fmt.Sprintf("inline %s %s: %v", e.Kind, e.URL, e.Err)
}

// Unwrap returns the underlying cause
func (e *InlineError) Unwrap() error {
	return e.Err
}

// FatalError aborts the whole run
type FatalError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause
func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsResolution checks if an error is a ResolutionError
func IsResolution(err error) bool {
	var resErr *ResolutionError
	return errors.As(err, &resErr)
}

// IsFetch checks if an error is a FetchError
func IsFetch(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// IsFatal checks if an error is a FatalError
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}

// Fatal wraps err as a FatalError for the given operation
func Fatal(op string, err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Op: op, Err: err}
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
