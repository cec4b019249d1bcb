package recommendation

import (
	"context"
	"fmt"
	"myBookShelf/domain"
	"myBookShelf/pkg/logger"
	"sync"
	"time"
)

// ---- Repository interfaces ----

// UserSignalRepository reads per-user signal rows at serving time.
type UserSignalRepository interface {
	FavoriteBookIDs(ctx context.Context, userID uint64) ([]uint64, error)
	// favorites of several users keyed by user, each list in favoriting order
	FavoriteBookIDsByUsers(ctx context.Context, userIDs []uint64) (map[uint64][]uint64, error)
	// declared interests ordered by level desc, then category id asc
	UserInterests(ctx context.Context, userID uint64) ([]domain.UserInterest, error)
}

type CatalogRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Book, bool, error)
	// available books among ids, category preloaded, order unspecified
	FindAvailableByIDs(ctx context.Context, ids []uint64) ([]domain.Book, error)
	// available books in categories minus excluded ids, by rating desc
	FindAvailableInCategories(ctx context.Context, categoryIDs, excludeIDs []uint64, limit int) ([]uint64, error)
	// available books by favorite count desc, rating desc
	FindPopular(ctx context.Context, limit int) ([]uint64, error)
	// available books of a category minus excludeID by rating desc, favorite count desc
	FindSimilar(ctx context.Context, categoryID, excludeID uint64, limit int) ([]uint64, error)
}

// ModelStore persists exactly one current model. Load reports ok=false when
// nothing was ever saved.
type ModelStore interface {
	Save(ctx context.Context, model *SimilarityModel) error
	Load(ctx context.Context) (*SimilarityModel, bool, error)
	Exists(ctx context.Context) (bool, error)
}

// ---- Engine ----

type Engine struct {
	signals SignalRepository
	users   UserSignalRepository
	catalog CatalogRepository
	store   ModelStore
	cache   Cache
	cfg     Config

	mu    sync.RWMutex
	model *SimilarityModel

	trainMu sync.Mutex
}

// NewEngine wires the engine. cache may be nil to disable result caching.
func NewEngine(
	signals SignalRepository,
	users UserSignalRepository,
	catalog CatalogRepository,
	store ModelStore,
	cache Cache,
	cfg Config,
) *Engine {
	if cache == nil {
		cache = noCache{}
	}
	return &Engine{
		signals: signals,
		users:   users,
		catalog: catalog,
		store:   store,
		cache:   cache,
		cfg:     cfg.withDefaults(),
	}
}

// Train aggregates the current signals, builds a similarity model, persists it
// and makes it live. Runs inside one process never overlap.
func (e *Engine) Train(ctx context.Context) (*SimilarityModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	start := time.Now()
	tid := TraceIDFromContext(ctx)

	signals, err := LoadSignals(ctx, e.signals)
	if err != nil {
		TrainingRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	blended := BlendSignals(signals, e.cfg)
	model, err := BuildModel(blended)
	if err != nil {
		if err == ErrNotTrainable {
			TrainingRunsTotal.WithLabelValues("not_trainable").Inc()
		} else {
			TrainingRunsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	if err := e.store.Save(ctx, model); err != nil {
		TrainingRunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to save model: %w", err)
	}

	e.setModel(model)
	TrainingRunsTotal.WithLabelValues("trained").Inc()

	logger.Info("recommendation_model_trained",
		"trace_id", tid,
		"users", model.Size(),
		"categories", len(blended.Categories),
		"interest_rows", len(signals.Interests),
		"favorite_rows", len(signals.FavoriteCounts),
		"peer_rating_rows", len(signals.PeerRatings),
		"took_ms", time.Since(start).Milliseconds(),
	)

	return model, nil
}

// HasStoredModel reports whether the store holds a model artifact.
func (e *Engine) HasStoredModel(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}
	return e.store.Exists(ctx)
}

// ReloadModel replaces the live model with the stored one. When the store is
// empty the live model is left as is and false is returned.
func (e *Engine) ReloadModel(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	model, ok, err := e.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load model: %w", err)
	}
	if !ok {
		return false, nil
	}

	e.setModel(model)
	logger.Info("recommendation_model_reloaded",
		"trace_id", TraceIDFromContext(ctx),
		"users", model.Size(),
	)
	return true, nil
}

// currentModel returns the live model, loading it from the store on first use.
// An absent artifact is not remembered, so a later request retries the load.
func (e *Engine) currentModel(ctx context.Context) (*SimilarityModel, bool, error) {
	e.mu.RLock()
	m := e.model
	e.mu.RUnlock()
	if m != nil {
		return m, true, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model != nil {
		return e.model, true, nil
	}

	m, ok, err := e.store.Load(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load model: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	e.model = m
	ModelUsers.Set(float64(m.Size()))
	return m, true, nil
}

func (e *Engine) setModel(m *SimilarityModel) {
	e.mu.Lock()
	e.model = m
	e.mu.Unlock()
	ModelUsers.Set(float64(m.Size()))
}

func (e *Engine) clampTopN(topN, fallback int) int {
	if topN <= 0 {
		return fallback
	}
	if topN > e.cfg.MaxTopN {
		return e.cfg.MaxTopN
	}
	return topN
}
