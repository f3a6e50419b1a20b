// ABOUTME: Standard HTTP client implementation with bounded retry and optional rate limiting
// ABOUTME: Provides GET requests with exponential backoff for transient server failures

package standard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/ninimihaila/singlepage/core/interfaces"
)

// DefaultUserAgent is sent when Config.UserAgent is empty
const DefaultUserAgent = "singlepage/1.0"

// Config configures the HTTP client
type Config struct {
	// Timeout bounds each individual request
	Timeout time.Duration

	// MaxAttempts is the number of tries per request; values below 1 mean one try
	MaxAttempts int

	// RateLimit caps requests per second across the client; 0 disables limiting
	RateLimit float64

	// UserAgent is sent with every request
	UserAgent string
}

// StandardHTTPClient implements the HTTPClient interface using standard library
type StandardHTTPClient struct {
	client      *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	userAgent   string
}

// NewStandardHTTPClient creates a new HTTP client from cfg
func NewStandardHTTPClient(cfg Config) *StandardHTTPClient {
	c := &StandardHTTPClient{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxAttempts: cfg.MaxAttempts,
		userAgent:   cfg.UserAgent,
	}
	if c.maxAttempts < 1 {
		c.maxAttempts = 1
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return c
}

const (
	baseBackoff = 100 * time.Millisecond
	maxBackoff  = 5 * time.Second
)

// backoff returns the wait before the given retry: 100ms, 200ms, 400ms,
// doubling up to maxBackoff
func backoff(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	d := baseBackoff
	for i := 1; i < attempt && d < maxBackoff; i++ {
		d *= 2
	}
	return min(d, maxBackoff)
}

// Get performs an HTTP GET request
func (c *StandardHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		resp, err = c.client.Do(req)
		if err != nil {
			lastErr = err
			resp = nil
			if ctx.Err() != nil {
				return nil, err
			}
			continue
		}

		// Don't retry on success or 4xx errors
		if resp.StatusCode < 500 || attempt == c.maxAttempts-1 {
			break
		}

		lastErr = fmt.Errorf("server returned %d", resp.StatusCode)
		resp.Body.Close()
		resp = nil
	}

	if resp == nil {
		return nil, lastErr
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
	}, nil
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}
