// ABOUTME: Resource fetcher retrieves every referenced URL concurrently into a fresh cache
// ABOUTME: Fan-out is bounded and a failing URL only produces a failure marker

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ninimihaila/singlepage/core/domain"
	coreerrors "github.com/ninimihaila/singlepage/core/errors"
	"github.com/ninimihaila/singlepage/core/interfaces"
	"github.com/ninimihaila/singlepage/core/resolver"
)

const (
	// DefaultConcurrency is the number of simultaneous requests when not configured
	DefaultConcurrency = 8

	// DefaultMaxBodyBytes caps a single resource body (32MB)
	DefaultMaxBodyBytes int64 = 32 << 20
)

var errNoCache = errors.New("no cache factory configured")

// ProgressFunc is called once per completed URL. Calls are serialized.
type ProgressFunc func(done, total int, res *domain.Resource)

// Option configures a Service
type Option func(*Service)

// WithConcurrency sets the maximum number of outstanding requests
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithMaxBodyBytes sets the largest body accepted for one resource
func WithMaxBodyBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithProgress registers a progress callback
func WithProgress(fn ProgressFunc) Option {
	return func(s *Service) {
		s.progress = fn
	}
}

// Service fetches resources for a page
type Service struct {
	deps         interfaces.Dependencies
	concurrency  int
	maxBodyBytes int64
	progress     ProgressFunc
}

// NewService creates a new fetch service
func NewService(deps interfaces.Dependencies, opts ...Option) *Service {
	s := &Service{
		deps:         deps,
		concurrency:  DefaultConcurrency,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchAll fetches each distinct URL once and returns a cache holding an
// entry, success or failure marker, for every one of them. The only error
// returned is cancellation of ctx, in which case no cache is returned.
func (s *Service) FetchAll(ctx context.Context, urls []string) (interfaces.ResourceCache, error) {
	if s.deps.NewCache == nil {
		return nil, errNoCache
	}

	unique := dedupe(urls)
	cache := s.deps.NewCache()
	total := len(unique)

	s.logDebug("Starting resource fetch", map[string]interface{}{
		"count":       total,
		"concurrency": s.concurrency,
	})

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, u := range unique {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := s.fetchOne(gctx, u)
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := cache.Set(gctx, res); err != nil {
				return err
			}

			mu.Lock()
			done++
			s.report(done, total, res)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, coreerrors.WrapError(err, "fetch resources")
	}
	if err := ctx.Err(); err != nil {
		return nil, coreerrors.WrapError(err, "fetch resources")
	}

	return cache, nil
}

// fetchOne retrieves a single URL; every failure becomes a failure marker
func (s *Service) fetchOne(ctx context.Context, u string) *domain.Resource {
	res := &domain.Resource{URL: u}

	if !resolver.IsFetchable(u) {
		res.Err = &coreerrors.FetchError{URL: u, Err: coreerrors.ErrUnsupportedScheme}
		return res
	}
	if s.deps.HTTPClient == nil {
		res.Err = &coreerrors.FetchError{URL: u, Err: errors.New("no HTTP client configured")}
		return res
	}

	resp, err := s.deps.HTTPClient.Get(ctx, u)
	if err != nil {
		res.Err = &coreerrors.FetchError{URL: u, Err: err}
		return res
	}
	body := resp.Body()
	defer body.Close()

	res.StatusCode = resp.StatusCode()
	res.ContentType = resp.Header("Content-Type")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		res.Err = &coreerrors.FetchError{URL: u, StatusCode: res.StatusCode, Err: fmt.Errorf("unexpected status code: %d", res.StatusCode)}
		return res
	}

	data, err := io.ReadAll(io.LimitReader(body, s.maxBodyBytes+1))
	if err != nil {
		res.Err = &coreerrors.FetchError{URL: u, Err: coreerrors.WrapError(err, "read body")}
		return res
	}
	if int64(len(data)) > s.maxBodyBytes {
		res.Err = &coreerrors.FetchError{URL: u, Err: coreerrors.ErrBodyTooLarge}
		return res
	}

	res.Body = data
	return res
}

func (s *Service) report(done, total int, res *domain.Resource) {
	if s.progress != nil {
		s.progress(done, total, res)
	}

	fields := map[string]interface{}{
		"progress": fmt.Sprintf("%d/%d", done, total),
		"url":      res.URL,
	}
	if res.Failed() {
		fields["error"] = res.Err.Error()
		s.logInfo("Fetch failed", fields)
		return
	}
	fields["bytes"] = len(res.Body)
	s.logInfo("Fetched resource", fields)
}

func (s *Service) logInfo(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Info(msg, fields)
	}
}

func (s *Service) logDebug(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Debug(msg, fields)
	}
}

// dedupe drops repeated URLs while keeping first-seen order
func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	unique := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}
	return unique
}
