package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/internal/infrastructure/observability"
)

type mapCache struct {
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("key not found: %s", key)
}

func (c *mapCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func TestCacheMiddlewareHitAndMiss(t *testing.T) {
	// The global meter provider is a no-op in tests; hit and miss counts
	// still go through the recording path.
	metrics, err := observability.InitMetrics()
	require.NoError(t, err)

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cities":["Минск"]}`))
	})

	handler := NewCacheMiddleware(newMapCache(), metrics).Middleware(next)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/cities", nil))
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/cities", nil))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)
	assert.JSONEq(t, `{"cities":["Минск"]}`, second.Body.String())
}

func TestCacheMiddlewareNilMetrics(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cities":[]}`))
	})

	handler := NewCacheMiddleware(newMapCache(), nil).Middleware(next)

	for _, want := range []string{"MISS", "HIT"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cities", nil))
		assert.Equal(t, want, rec.Header().Get("X-Cache"))
	}
}

func TestCacheMiddlewareSkipsUncachedRoutes(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{}`))
	})

	handler := NewCacheMiddleware(newMapCache(), nil).Middleware(next)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/wizard/sessions/abc", nil))
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, calls)
}
