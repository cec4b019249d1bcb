package recommendation

import (
	"context"
	"fmt"
	"myBookShelf/pkg/logger"
	"time"
)

// Cache holds ranked id lists. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]uint64, bool, error)
	Set(ctx context.Context, key string, ids []uint64, ttl time.Duration) error
}

func cacheKey(userID uint64, topN int) string {
	return fmt.Sprintf("recommendations:%d:%d", userID, topN)
}

type noCache struct{}

func (noCache) Get(context.Context, string) ([]uint64, bool, error) { return nil, false, nil }

func (noCache) Set(context.Context, string, []uint64, time.Duration) error { return nil }

// cache faults never fail a request; they are logged and treated as misses.

func (e *Engine) cacheGet(ctx context.Context, key string) ([]uint64, bool) {
	ids, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("recommendation_cache_get_failed",
			"trace_id", TraceIDFromContext(ctx),
			"key", key,
			"error", err,
		)
		return nil, false
	}
	return ids, ok
}

func (e *Engine) cacheSet(ctx context.Context, key string, ids []uint64) {
	if err := e.cache.Set(ctx, key, ids, e.cfg.CacheTTL); err != nil {
		logger.Warn("recommendation_cache_set_failed",
			"trace_id", TraceIDFromContext(ctx),
			"key", key,
			"error", err,
		)
	}
}
