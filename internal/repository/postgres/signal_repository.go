package postgres

import (
	"context"
	"fmt"
	"myBookShelf/business/recommendation"
	"myBookShelf/domain"

	"gorm.io/gorm"
)

// SignalRepository reads the training signals as (user, category, value) rows.
// Rows come back in a fixed order so repeated training sees identical input.
type SignalRepository struct {
	DB *gorm.DB
}

var _ recommendation.SignalRepository = (*SignalRepository)(nil)

func NewSignalRepository(db *gorm.DB) *SignalRepository {
	return &SignalRepository{DB: db}
}

func (r *SignalRepository) InterestSignals(ctx context.Context) ([]domain.CategorySignal, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.CategorySignal
	err := r.DB.WithContext(ctx).
		Model(&domain.UserInterest{}).
		Select("user_id, category_id, level AS value").
		Order("user_id, category_id, id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query user_interests: %w", err)
	}

	return rows, nil
}

func (r *SignalRepository) FavoriteCategoryCounts(ctx context.Context) ([]domain.CategorySignal, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.CategorySignal
	err := r.DB.WithContext(ctx).
		Table("favorites AS f").
		Select("f.user_id AS user_id, b.category_id AS category_id, COUNT(f.id) AS value").
		Joins("JOIN books AS b ON b.id = f.book_id").
		Group("f.user_id, b.category_id").
		Order("f.user_id, b.category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate favorites: %w", err)
	}

	return rows, nil
}

func (r *SignalRepository) PeerRatingSignals(ctx context.Context) ([]domain.CategorySignal, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.CategorySignal
	err := r.DB.WithContext(ctx).
		Table("peer_recommendations AS p").
		Select("p.user_id AS user_id, b.category_id AS category_id, p.rating AS value").
		Joins("JOIN books AS b ON b.id = p.book_id").
		Order("p.user_id, b.category_id, p.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query peer_recommendations: %w", err)
	}

	return rows, nil
}
