package recommendation

import (
	"context"
	"errors"
	"fmt"
	"myBookShelf/domain"
	"myBookShelf/pkg/logger"
)

// Service is the serving facade: it resolves ranked ids to book records and
// keeps recommendation queries from ever failing toward the caller.
type Service struct {
	engine  *Engine
	catalog CatalogRepository
}

func NewService(engine *Engine, catalog CatalogRepository) *Service {
	return &Service{engine: engine, catalog: catalog}
}

type TrainResult struct {
	Skipped bool `json:"skipped"`
	Users   int  `json:"users"`
}

// RecommendBooks never returns an error; faults degrade to an empty list.
func (s *Service) RecommendBooks(ctx context.Context, userID uint64, topN int) []domain.BookRecord {
	ids, err := s.engine.Recommend(ctx, userID, topN)
	if err != nil {
		logger.Error("recommendation_failed",
			"trace_id", TraceIDFromContext(ctx),
			"user_id", userID,
			"top_n", topN,
			"error", err,
		)
		return []domain.BookRecord{}
	}
	return s.resolve(ctx, ids)
}

func (s *Service) SimilarBooks(ctx context.Context, bookID uint64, topN int) []domain.BookRecord {
	ids, err := s.engine.SimilarItems(ctx, bookID, topN)
	if err != nil {
		logger.Error("similar_books_failed",
			"trace_id", TraceIDFromContext(ctx),
			"book_id", bookID,
			"top_n", topN,
			"error", err,
		)
		return []domain.BookRecord{}
	}
	return s.resolve(ctx, ids)
}

// TrainModel trains unless a model is already stored and force is false.
// ErrNotTrainable is returned as is so callers can treat it as a warning.
func (s *Service) TrainModel(ctx context.Context, force bool) (TrainResult, error) {
	if err := ctx.Err(); err != nil {
		return TrainResult{}, fmt.Errorf("context error: %w", err)
	}

	if !force {
		exists, err := s.engine.HasStoredModel(ctx)
		if err != nil {
			return TrainResult{}, fmt.Errorf("failed to check stored model: %w", err)
		}
		if exists {
			TrainingRunsTotal.WithLabelValues("skipped").Inc()
			logger.Info("recommendation_training_skipped",
				"trace_id", TraceIDFromContext(ctx),
				"reason", "model exists",
			)
			return TrainResult{Skipped: true}, nil
		}
	}

	model, err := s.engine.Train(ctx)
	if err != nil {
		if errors.Is(err, ErrNotTrainable) {
			logger.Warn("recommendation_not_trainable", "trace_id", TraceIDFromContext(ctx))
		}
		return TrainResult{}, err
	}

	return TrainResult{Users: model.Size()}, nil
}

func (s *Service) ReloadModel(ctx context.Context) (bool, error) {
	return s.engine.ReloadModel(ctx)
}

// resolve keeps ids order and drops ids with no available book.
func (s *Service) resolve(ctx context.Context, ids []uint64) []domain.BookRecord {
	if len(ids) == 0 {
		return []domain.BookRecord{}
	}

	books, err := s.catalog.FindAvailableByIDs(ctx, ids)
	if err != nil {
		logger.Error("recommendation_resolve_failed",
			"trace_id", TraceIDFromContext(ctx),
			"error", err,
		)
		return []domain.BookRecord{}
	}

	byID := make(map[uint64]domain.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	out := make([]domain.BookRecord, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			out = append(out, b.Record())
		}
	}
	return out
}
