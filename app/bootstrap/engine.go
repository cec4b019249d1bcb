package bootstrap

import (
	"myBookShelf/business/recommendation"
	"myBookShelf/internal/repository/modelstore"
	psqlRepo "myBookShelf/internal/repository/postgres"
	"myBookShelf/pkg/config"
	"myBookShelf/pkg/logger"

	"gorm.io/gorm"
)

// NewModelStore picks the model persistence configured by MODEL_STORE.
func NewModelStore(cfg *config.Config, db *gorm.DB) recommendation.ModelStore {
	if cfg.Recommendation.ModelStore == "postgres" {
		logger.Info("Recommendation model store selected", "backend", "postgres")
		return psqlRepo.NewModelRepository(db)
	}
	store := modelstore.NewFileStore(cfg.Recommendation.ModelPath)
	logger.Info("Recommendation model store selected", "backend", "file", "path", store.Path())
	return store
}

func EngineConfig(cfg *config.Config) recommendation.Config {
	c := recommendation.DefaultConfig()
	c.CacheTTL = cfg.Recommendation.CacheTTL
	c.NeighborCount = cfg.Recommendation.NeighborCount
	c.InterestBoostMinLevel = cfg.Recommendation.InterestBoostMinLevel
	return c
}

// NewService wires the engine and its serving facade on the postgres repositories.
// cache may be nil.
func NewService(cfg *config.Config, db *gorm.DB, cache recommendation.Cache) *recommendation.Service {
	books := psqlRepo.NewBookRepository(db)
	engine := recommendation.NewEngine(
		psqlRepo.NewSignalRepository(db),
		psqlRepo.NewUserSignalRepository(db),
		books,
		NewModelStore(cfg, db),
		cache,
		EngineConfig(cfg),
	)
	return recommendation.NewService(engine, books)
}
