package inline

import (
	"context"
	"sync"

	"github.com/ninimihaila/singlepage/core/domain"
	coreerrors "github.com/ninimihaila/singlepage/core/errors"
)

// mockCache is a map based ResourceCache that counts lookups
type mockCache struct {
	mu    sync.Mutex
	items map[string]*domain.Resource
	gets  map[string]int
}

func newMockCache(resources ...*domain.Resource) *mockCache {
	c := &mockCache{
		items: make(map[string]*domain.Resource),
		gets:  make(map[string]int),
	}
	for _, res := range resources {
		c.items[res.URL] = res
	}
	return c
}

func (m *mockCache) Get(ctx context.Context, url string) (*domain.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets[url]++
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

type logEntry struct {
	level  string
	msg    string
	fields map[string]interface{}
}

// mockLogger is a mock implementation of the Logger interface
type mockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (m *mockLogger) record(level, msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (m *mockLogger) count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) { m.record("debug", msg, fields) }
func (m *mockLogger) Info(msg string, fields map[string]interface{})  { m.record("info", msg, fields) }
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  { m.record("warn", msg, fields) }
func (m *mockLogger) Error(msg string, fields map[string]interface{}) { m.record("error", msg, fields) }
