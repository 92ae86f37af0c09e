package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-assistant-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsAPIClientEverything(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "ai chips today latest 2026", r.URL.Query().Get("q"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		_, _ = w.Write([]byte(`{"status":"ok","articles":[
			{"source":{"name":"Wire"},"title":"Chips ship","description":"d","url":"https://x","publishedAt":"2026-01-02T10:00:00Z"},
			{"source":{"name":"Gone"},"title":"[Removed]"}
		]}`))
	}))
	defer srv.Close()

	c := NewNewsAPIClient(srv.URL, "secret")
	res, err := c.Search(context.Background(), "technology", "ai chips today latest 2026")
	require.NoError(t, err)
	require.Len(t, res.Articles, 1)
	assert.Equal(t, "Chips ship", res.Articles[0].Title)
	assert.Equal(t, "Wire", res.Articles[0].Source)
	assert.False(t, res.IsPlaceholder)
}

func TestNewsAPIClientHeadlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/top-headlines", r.URL.Path)
		assert.Equal(t, "sports", r.URL.Query().Get("category"))
		assert.Empty(t, r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"status":"ok","articles":[]}`))
	}))
	defer srv.Close()

	res, err := NewNewsAPIClient(srv.URL, "secret").Search(context.Background(), "sports", "")
	require.NoError(t, err)
	assert.True(t, res.Empty())
}

func TestNewsAPIClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":"error","code":"rateLimited","message":"slow down"}`))
	}))
	defer srv.Close()

	_, err := NewNewsAPIClient(srv.URL, "secret").Search(context.Background(), "general", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rateLimited")
}

func TestNewsAPIClientWithoutKeyIsPlaceholder(t *testing.T) {
	res, err := NewNewsAPIClient("", "").Search(context.Background(), "science", "x")
	require.NoError(t, err)
	assert.True(t, res.IsPlaceholder)
	assert.False(t, res.Empty())
}

type memKV struct {
	data   map[string]string
	getErr error
	sets   int
}

func (m *memKV) Get(_ context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memKV) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	m.sets++
	m.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

type countingClient struct {
	calls int
	res   *Result
	err   error
}

func (c *countingClient) Search(context.Context, string, string) (*Result, error) {
	c.calls++
	return c.res, c.err
}

func TestCachedClient(t *testing.T) {
	next := &countingClient{res: &Result{Articles: []Article{{Title: "A"}}}}
	kv := &memKV{data: map[string]string{}}
	c := NewCachedClient(next, kv, time.Minute, logger.NewNopLogger())

	for i := 0; i < 3; i++ {
		res, err := c.Search(context.Background(), "general", "Hello ")
		require.NoError(t, err)
		assert.Equal(t, "A", res.Articles[0].Title)
	}
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, 1, kv.sets)

	// same query modulo case and spacing shares the key
	_, _ = c.Search(context.Background(), "general", "hello")
	assert.Equal(t, 1, next.calls)
}

func TestCachedClientSkipsPlaceholdersAndErrors(t *testing.T) {
	next := &countingClient{res: &Result{IsPlaceholder: true, Articles: []Article{{Title: "P"}}}}
	kv := &memKV{data: map[string]string{}}
	c := NewCachedClient(next, kv, time.Minute, logger.NewNopLogger())

	_, _ = c.Search(context.Background(), "general", "q")
	assert.Equal(t, 0, kv.sets)

	kv.getErr = errors.New("connection refused")
	next.res = &Result{Articles: []Article{{Title: "B"}}}
	res, err := c.Search(context.Background(), "general", "q")
	require.NoError(t, err)
	assert.Equal(t, "B", res.Articles[0].Title)

	next.err = errors.New("boom")
	kv.getErr = nil
	_, err = c.Search(context.Background(), "general", "other")
	assert.Error(t, err)
}

func TestDigest(t *testing.T) {
	var articles []Article
	for i := 0; i < 7; i++ {
		articles = append(articles, Article{Title: "T", Source: "S", URL: "https://u"})
	}
	out := Digest("technology", articles)

	assert.True(t, strings.HasPrefix(out, "### Latest Technology News"))
	assert.Contains(t, out, "5. **T**")
	assert.NotContains(t, out, "6. **T**")
	assert.Contains(t, out, "[Read more](https://u)")
}
