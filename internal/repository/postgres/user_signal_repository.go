package postgres

import (
	"context"
	"fmt"
	"myBookShelf/business/recommendation"
	"myBookShelf/domain"

	"gorm.io/gorm"
)

type UserSignalRepository struct {
	DB *gorm.DB
}

var _ recommendation.UserSignalRepository = (*UserSignalRepository)(nil)

func NewUserSignalRepository(db *gorm.DB) *UserSignalRepository {
	return &UserSignalRepository{DB: db}
}

func (r *UserSignalRepository) FavoriteBookIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []uint64
	err := r.DB.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Pluck("book_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find favorites: %w", err)
	}

	return ids, nil
}

func (r *UserSignalRepository) FavoriteBookIDsByUsers(ctx context.Context, userIDs []uint64) (map[uint64][]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	out := make(map[uint64][]uint64, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var favorites []domain.Favorite
	err := r.DB.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("user_id, created_at, id").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find favorites by users: %w", err)
	}

	for _, f := range favorites {
		out[f.UserID] = append(out[f.UserID], f.BookID)
	}
	return out, nil
}

func (r *UserSignalRepository) UserInterests(ctx context.Context, userID uint64) ([]domain.UserInterest, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var interests []domain.UserInterest
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("level DESC, category_id ASC").
		Find(&interests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find user interests: %w", err)
	}

	return interests, nil
}
