// ABOUTME: Pipeline driver saving one page: fetch, parse, fetch resources, inline, render
// ABOUTME: Every error it returns is fatal; per-resource problems surface as warnings

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	coreerrors "github.com/ninimihaila/singlepage/core/errors"
	"github.com/ninimihaila/singlepage/core/fetch"
	"github.com/ninimihaila/singlepage/core/inline"
	"github.com/ninimihaila/singlepage/core/interfaces"
	"github.com/ninimihaila/singlepage/core/links"
	"github.com/ninimihaila/singlepage/core/resolver"
)

// Result describes one saved page
type Result struct {
	Source  string
	BaseURL string

	// Resources is the number of distinct URLs fetched; Failed of them failed
	Resources int
	Failed    int

	Inlined  int
	Skipped  int
	Warnings []string

	PageBytes     int64
	ResourceBytes int64
	OutputBytes   int64

	Elapsed time.Duration
}

// Option configures a Service
type Option func(*Service)

// WithFetcher replaces the resource fetcher
func WithFetcher(f interfaces.ResourceFetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithInliner replaces the inliner
func WithInliner(i interfaces.Inliner) Option {
	return func(s *Service) {
		if i != nil {
			s.inliner = i
		}
	}
}

// WithMaxPageBytes caps the size of the root page
func WithMaxPageBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPageBytes = n
		}
	}
}

// Service saves pages as single self-contained documents
type Service struct {
	deps         interfaces.Dependencies
	fetcher      interfaces.ResourceFetcher
	inliner      interfaces.Inliner
	maxPageBytes int64
}

// NewService creates a pipeline using the default fetch and inline services
// built from deps unless replaced through options.
func NewService(deps interfaces.Dependencies, opts ...Option) *Service {
	s := &Service{
		deps:         deps,
		maxPageBytes: fetch.DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher == nil {
		s.fetcher = fetch.NewService(deps)
	}
	if s.inliner == nil {
		s.inliner = inline.NewService(deps)
	}
	return s
}

// Save fetches source, embeds every script, stylesheet and image it
// references and writes the resulting UTF-8 document to w.
func (s *Service) Save(ctx context.Context, source string, w io.Writer) (*Result, error) {
	start := time.Now()
	source = strings.TrimSpace(source)
	result := &Result{Source: source}

	page, contentType, err := s.fetchPage(ctx, source)
	if err != nil {
		return nil, coreerrors.Fatal("fetch page", err)
	}
	result.PageBytes = int64(len(page))

	reader, err := charset.NewReader(bytes.NewReader(page), contentType)
	if err != nil {
		return nil, coreerrors.Fatal("decode page", err)
	}
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, coreerrors.Fatal("parse page", err)
	}

	base := links.BaseURL(doc, source)
	result.BaseURL = base

	var urls []string
	for _, u := range links.URLs(doc, links.DefaultRules, base) {
		if resolver.IsFetchable(u) {
			urls = append(urls, u)
		}
	}
	s.logInfo("Fetching resources", map[string]interface{}{
		"url":       source,
		"resources": len(urls),
	})

	cache, err := s.fetcher.FetchAll(ctx, urls)
	if err != nil {
		return nil, coreerrors.Fatal("fetch resources", err)
	}
	for _, u := range urls {
		res, err := cache.Get(ctx, u)
		if err != nil {
			continue
		}
		result.Resources++
		if res.Failed() {
			result.Failed++
			continue
		}
		result.ResourceBytes += int64(res.Size())
	}

	report := s.inliner.InlineAll(ctx, doc, base, cache)
	result.Inlined = report.Inlined
	result.Skipped = report.Skipped
	result.Warnings = report.Warnings
	if err := ctx.Err(); err != nil {
		return nil, coreerrors.Fatal("inline resources", err)
	}

	declareUTF8(doc)

	cw := &countingWriter{w: w}
	if err := html.Render(cw, doc.Nodes[0]); err != nil {
		return nil, coreerrors.Fatal("render page", err)
	}
	result.OutputBytes = cw.n
	result.Elapsed = time.Since(start)

	return result, nil
}

// fetchPage downloads the root document and returns its bytes and Content-Type
func (s *Service) fetchPage(ctx context.Context, source string) ([]byte, string, error) {
	if !resolver.IsFetchable(source) {
		return nil, "", &coreerrors.FetchError{URL: source, Err: coreerrors.ErrUnsupportedScheme}
	}
	if s.deps.HTTPClient == nil {
		return nil, "", &coreerrors.FetchError{URL: source, Err: fmt.Errorf("no HTTP client configured")}
	}

	s.logInfo("Fetching page", map[string]interface{}{
		"url": source,
	})

	resp, err := s.deps.HTTPClient.Get(ctx, source)
	if err != nil {
		return nil, "", &coreerrors.FetchError{URL: source, Err: err}
	}
	body := resp.Body()
	defer body.Close()

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, "", &coreerrors.FetchError{URL: source, StatusCode: code, Err: fmt.Errorf("unexpected status code: %d", code)}
	}

	data, err := io.ReadAll(io.LimitReader(body, s.maxPageBytes+1))
	if err != nil {
		return nil, "", &coreerrors.FetchError{URL: source, Err: coreerrors.WrapError(err, "read body")}
	}
	if int64(len(data)) > s.maxPageBytes {
		return nil, "", &coreerrors.FetchError{URL: source, Err: coreerrors.ErrBodyTooLarge}
	}
	return data, resp.Header("Content-Type"), nil
}

// declareUTF8 makes the document's charset declarations match the UTF-8
// output, adding <meta charset="utf-8"> to head when none exists.
func declareUTF8(doc *goquery.Document) {
	found := false
	doc.Find("meta[charset]").Each(func(_ int, m *goquery.Selection) {
		m.SetAttr("charset", "utf-8")
		found = true
	})
	doc.Find("meta[http-equiv][content]").Each(func(_ int, m *goquery.Selection) {
		equiv, _ := m.Attr("http-equiv")
		if strings.EqualFold(strings.TrimSpace(equiv), "content-type") {
			m.SetAttr("content", "text/html; charset=utf-8")
			found = true
		}
	})
	if !found {
		doc.Find("head").First().PrependHtml(`<meta charset="utf-8">`)
	}
}

func (s *Service) logInfo(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Info(msg, fields)
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
