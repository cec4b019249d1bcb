package recommendation

import (
	"context"
	"fmt"
	"myBookShelf/domain"
	"sort"
)

// Recommend returns up to topN book ids for the user, best first.
// Users unknown to the model, users whose neighbours leave no candidate,
// and any request made before a model exists are served by ColdStart.
func (e *Engine) Recommend(ctx context.Context, userID uint64, topN int) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	topN = e.clampTopN(topN, e.cfg.DefaultTopN)

	key := cacheKey(userID, topN)
	if ids, ok := e.cacheGet(ctx, key); ok {
		RecommendationsServedTotal.WithLabelValues(SourceCache).Inc()
		return ids, nil
	}

	model, ok, err := e.currentModel(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return e.ColdStart(ctx, userID, topN)
	}
	if _, known := model.IndexOf(userID); !known {
		return e.ColdStart(ctx, userID, topN)
	}

	ids, err := e.rankByNeighbors(ctx, model, userID, topN)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return e.ColdStart(ctx, userID, topN)
	}

	e.cacheSet(ctx, key, ids)
	RecommendationsServedTotal.WithLabelValues(SourceModel).Inc()
	return ids, nil
}

func (e *Engine) rankByNeighbors(ctx context.Context, model *SimilarityModel, userID uint64, topN int) ([]uint64, error) {
	neighbors := model.Neighbors(userID, e.cfg.NeighborCount)
	if len(neighbors) == 0 {
		return []uint64{}, nil
	}

	byUser, err := e.users.FavoriteBookIDsByUsers(ctx, neighbors)
	if err != nil {
		return nil, fmt.Errorf("failed to load neighbor favorites: %w", err)
	}

	own, err := e.users.FavoriteBookIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user favorites: %w", err)
	}
	owned := make(map[uint64]struct{}, len(own))
	for _, id := range own {
		owned[id] = struct{}{}
	}

	// first-seen order over neighbors (most similar first) is the stable base
	counts := make(map[uint64]int)
	var candidates []uint64
	for _, n := range neighbors {
		for _, bookID := range byUser[n] {
			if _, skip := owned[bookID]; skip {
				continue
			}
			if counts[bookID] == 0 {
				candidates = append(candidates, bookID)
			}
			counts[bookID]++
		}
	}
	if len(candidates) == 0 {
		return []uint64{}, nil
	}

	books, err := e.catalog.FindAvailableByIDs(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate books: %w", err)
	}
	categoryOf := make(map[uint64]uint64, len(books))
	for _, b := range books {
		categoryOf[b.ID] = b.CategoryID
	}

	available := candidates[:0]
	for _, id := range candidates {
		if _, ok := categoryOf[id]; ok {
			available = append(available, id)
		}
	}

	interests, err := e.users.UserInterests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user interests: %w", err)
	}

	ranked := rankCandidates(available, counts, categoryOf, interests, e.cfg.InterestBoostMinLevel)
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked, nil
}

// rankCandidates orders by neighbor count desc. Within equal counts, books in a
// category the user declared at level >= minLevel move ahead, higher level
// first. Anything else keeps its incoming order.
func rankCandidates(ids []uint64, counts map[uint64]int, categoryOf map[uint64]uint64, interests []domain.UserInterest, minLevel int) []uint64 {
	boost := make(map[uint64]int)
	for _, in := range interests {
		if in.Level >= minLevel && in.Level > boost[in.CategoryID] {
			boost[in.CategoryID] = in.Level
		}
	}

	out := make([]uint64, len(ids))
	copy(out, ids)
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := counts[out[i]], counts[out[j]]
		if ci != cj {
			return ci > cj
		}
		return boost[categoryOf[out[i]]] > boost[categoryOf[out[j]]]
	})
	return out
}
