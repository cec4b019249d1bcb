package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"myBookShelf/business/recommendation"
	"time"

	"github.com/redis/go-redis/v9"
)

// RecommendationCache stores ranked book id lists as JSON arrays.
type RecommendationCache struct {
	client *redis.Client
}

var _ recommendation.Cache = (*RecommendationCache)(nil)

func NewRecommendationCache(client *redis.Client) *RecommendationCache {
	return &RecommendationCache{
		client: client,
	}
}

func (r *RecommendationCache) Get(ctx context.Context, key string) ([]uint64, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get recommendations from Redis: %w", err)
	}

	var ids []uint64
	if err := json.Unmarshal(val, &ids); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached recommendations: %w", err)
	}
	if ids == nil {
		ids = []uint64{}
	}

	return ids, true, nil
}

func (r *RecommendationCache) Set(ctx context.Context, key string, ids []uint64, ttl time.Duration) error {
	if ids == nil {
		ids = []uint64{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store recommendations in Redis: %w", err)
	}

	return nil
}
