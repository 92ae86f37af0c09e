package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-assistant-be/internal/pkg/logger"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

// KV is the slice of the redis client the cache needs.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedClient memoizes non-placeholder results in redis. Redis problems are
// logged and bypassed; they never turn a good lookup into a failure.
type CachedClient struct {
	next   Client
	kv     KV
	ttl    time.Duration
	logger logger.ILogger
}

var _ Client = &CachedClient{}

func NewCachedClient(next Client, kv KV, ttl time.Duration, log logger.ILogger) *CachedClient {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedClient{next: next, kv: kv, ttl: ttl, logger: log}
}

func cacheKey(category, query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	return fmt.Sprintf("news:%s:%016x", category, xxhash.Sum64String(normalized))
}

func (c *CachedClient) Search(ctx context.Context, category, query string) (*Result, error) {
	if c.kv == nil {
		return c.next.Search(ctx, category, query)
	}

	key := cacheKey(category, query)
	raw, err := c.kv.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached Result
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			c.logger.Debug("NewsCache", "Cache hit", map[string]interface{}{"key": key})
			return &cached, nil
		}
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("NewsCache", "Cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	res, err := c.next.Search(ctx, category, query)
	if err != nil {
		return nil, err
	}
	if res.Empty() || res.IsPlaceholder {
		return res, nil
	}

	if data, jsonErr := json.Marshal(res); jsonErr == nil {
		if setErr := c.kv.Set(ctx, key, data, c.ttl).Err(); setErr != nil {
			c.logger.Warn("NewsCache", "Cache write failed", map[string]interface{}{"key": key, "error": setErr.Error()})
		}
	}
	return res, nil
}
