package fetch

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/ninimihaila/singlepage/core/domain"
	coreerrors "github.com/ninimihaila/singlepage/core/errors"
	"github.com/ninimihaila/singlepage/core/interfaces"
)

// mockHTTPClient is a mock implementation of the HTTPClient interface
type mockHTTPClient struct {
	getFunc func(ctx context.Context, url string) (interfaces.Response, error)
}

func (m *mockHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, url)
	}
	return nil, nil
}

// mockResponse is a mock implementation of the Response interface
type mockResponse struct {
	statusCode int
	body       string
	headers    map[string]string
}

func (m *mockResponse) StatusCode() int {
	return m.statusCode
}

func (m *mockResponse) Body() io.ReadCloser {
	return io.NopCloser(strings.NewReader(m.body))
}

func (m *mockResponse) Header(key string) string {
	if m.headers != nil {
		return m.headers[key]
	}
	return ""
}

// mockCache is a goroutine-safe map based ResourceCache
type mockCache struct {
	mu    sync.Mutex
	items map[string]*domain.Resource
}

func newMockCache() interfaces.ResourceCache {
	return &mockCache{items: make(map[string]*domain.Resource)}
}

func (m *mockCache) Get(ctx context.Context, url string) (*domain.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.items[url]
	if !ok {
		return nil, coreerrors.ErrCacheMiss
	}
	return res, nil
}

func (m *mockCache) Set(ctx context.Context, res *domain.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[res.URL] = res
	return nil
}

func (m *mockCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// mockLogger is a mock implementation of the Logger interface
type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockLogger) record(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) { m.record(msg) }
func (m *mockLogger) Info(msg string, fields map[string]interface{})  { m.record(msg) }
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  { m.record(msg) }
func (m *mockLogger) Error(msg string, fields map[string]interface{}) { m.record(msg) }
