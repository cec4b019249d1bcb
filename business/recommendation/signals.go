package recommendation

import (
	"context"
	"fmt"
	"myBookShelf/domain"

	"golang.org/x/sync/errgroup"
)

// SignalRepository reads the three raw signal sources as (user, category, value) rows.
type SignalRepository interface {
	// one row per declared interest, value = level
	InterestSignals(ctx context.Context) ([]domain.CategorySignal, error)
	// one row per (user, category of favorited book), value = favorite count
	FavoriteCategoryCounts(ctx context.Context) ([]domain.CategorySignal, error)
	// one row per peer recommendation, value = rating
	PeerRatingSignals(ctx context.Context) ([]domain.CategorySignal, error)
}

type Signals struct {
	Interests      []domain.CategorySignal
	FavoriteCounts []domain.CategorySignal
	PeerRatings    []domain.CategorySignal
}

// LoadSignals reads all sources concurrently; the first failure aborts the rest.
func LoadSignals(ctx context.Context, repo SignalRepository) (Signals, error) {
	if err := ctx.Err(); err != nil {
		return Signals{}, fmt.Errorf("context error: %w", err)
	}

	var s Signals
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := repo.InterestSignals(gctx)
		if err != nil {
			return fmt.Errorf("load interest signals: %w", err)
		}
		s.Interests = rows
		return nil
	})
	g.Go(func() error {
		rows, err := repo.FavoriteCategoryCounts(gctx)
		if err != nil {
			return fmt.Errorf("load favorite signals: %w", err)
		}
		s.FavoriteCounts = rows
		return nil
	})
	g.Go(func() error {
		rows, err := repo.PeerRatingSignals(gctx)
		if err != nil {
			return fmt.Errorf("load peer rating signals: %w", err)
		}
		s.PeerRatings = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return Signals{}, err
	}
	return s, nil
}

// BuildContentMatrix sums interest levels and weighted favorite counts per
// (user, category). Nil when both sources are empty.
func BuildContentMatrix(interests, favoriteCounts []domain.CategorySignal, favoriteWeight float64) *FeatureMatrix {
	p := newPivot(aggSum)
	for _, s := range interests {
		p.add(s.UserID, s.CategoryID, s.Value)
	}
	for _, s := range favoriteCounts {
		p.add(s.UserID, s.CategoryID, s.Value*favoriteWeight)
	}
	return p.matrix()
}

// BuildCollaborativeMatrix averages peer ratings per (user, category).
func BuildCollaborativeMatrix(ratings []domain.CategorySignal) *FeatureMatrix {
	p := newPivot(aggMean)
	for _, s := range ratings {
		p.add(s.UserID, s.CategoryID, s.Value)
	}
	return p.matrix()
}

// BlendSignals runs aggregation and blending with the configured weights.
func BlendSignals(s Signals, cfg Config) *FeatureMatrix {
	cfg = cfg.withDefaults()
	content := BuildContentMatrix(s.Interests, s.FavoriteCounts, cfg.FavoriteWeight)
	collaborative := BuildCollaborativeMatrix(s.PeerRatings)
	return Blend(content, collaborative, cfg.ContentWeight, cfg.CollaborativeWeight)
}
