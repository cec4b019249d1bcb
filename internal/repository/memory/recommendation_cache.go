package memory

import (
	"context"
	"myBookShelf/business/recommendation"
	"myBookShelf/pkg/logger"
	"sync"
	"time"
)

type entry struct {
	ids       []uint64
	expiresAt time.Time
}

// RecommendationCache is an in-process TTL cache for ranked id lists, used
// when no Redis is configured. Expired entries are dropped on read and by Purge.
type RecommendationCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

var _ recommendation.Cache = (*RecommendationCache)(nil)

func NewRecommendationCache() *RecommendationCache {
	return &RecommendationCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *RecommendationCache) Get(_ context.Context, key string) ([]uint64, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	out := make([]uint64, len(e.ids))
	copy(out, e.ids)
	return out, true, nil
}

func (c *RecommendationCache) Set(_ context.Context, key string, ids []uint64, ttl time.Duration) error {
	stored := make([]uint64, len(ids))
	copy(stored, ids)

	c.mu.Lock()
	c.entries[key] = entry{ids: stored, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Purge removes expired entries and returns how many were dropped.
func (c *RecommendationCache) Purge() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

func (c *RecommendationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RunPurger purges expired entries every interval until ctx is done.
func (c *RecommendationCache) RunPurger(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Purge(); n > 0 {
				logger.Debug("recommendation cache purged", "dropped", n, "remaining", c.Len())
			}
		}
	}
}
