package recommendation

import (
	"context"
	"fmt"
)

// ColdStart serves users the model cannot rank: books from their strongest
// declared interests first, global popularity otherwise. The result is cached
// like a ranked list.
func (e *Engine) ColdStart(ctx context.Context, userID uint64, topN int) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	topN = e.clampTopN(topN, e.cfg.DefaultTopN)

	ids, source, err := e.coldStart(ctx, userID, topN)
	if err != nil {
		return nil, err
	}

	e.cacheSet(ctx, cacheKey(userID, topN), ids)
	RecommendationsServedTotal.WithLabelValues(source).Inc()
	return ids, nil
}

func (e *Engine) coldStart(ctx context.Context, userID uint64, topN int) ([]uint64, string, error) {
	interests, err := e.users.UserInterests(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load user interests: %w", err)
	}

	if len(interests) > 0 {
		if len(interests) > e.cfg.ColdStartInterests {
			interests = interests[:e.cfg.ColdStartInterests]
		}
		categories := make([]uint64, 0, len(interests))
		for _, in := range interests {
			categories = append(categories, in.CategoryID)
		}

		favorites, err := e.users.FavoriteBookIDs(ctx, userID)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load user favorites: %w", err)
		}

		ids, err := e.catalog.FindAvailableInCategories(ctx, categories, favorites, topN)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load interest books: %w", err)
		}
		if len(ids) > 0 {
			return ids, SourceColdStartInterests, nil
		}
	}

	ids, err := e.catalog.FindPopular(ctx, topN)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load popular books: %w", err)
	}
	if ids == nil {
		ids = []uint64{}
	}
	return ids, SourceColdStartPopular, nil
}
