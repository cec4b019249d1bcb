package postgres

import (
	"context"
	"errors"
	"fmt"
	"myBookShelf/business/recommendation"
	"myBookShelf/domain"

	"gorm.io/gorm"
)

// BookRepository answers the catalog reads of the recommendation engine.
// Missing ratings sort as 0.
type BookRepository struct {
	DB *gorm.DB
}

var _ recommendation.CatalogRepository = (*BookRepository)(nil)

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{DB: db}
}

func (r *BookRepository) FindByID(ctx context.Context, id uint64) (domain.Book, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Book{}, false, fmt.Errorf("context error: %w", err)
	}

	var book domain.Book
	err := r.DB.WithContext(ctx).First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Book{}, false, nil
	}
	if err != nil {
		return domain.Book{}, false, fmt.Errorf("failed to find book: %w", err)
	}

	return book, true, nil
}

func (r *BookRepository) FindAvailableByIDs(ctx context.Context, ids []uint64) ([]domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Book{}, nil
	}

	var books []domain.Book
	err := r.DB.WithContext(ctx).
		Preload("Category").
		Where("id IN ? AND available = ?", ids, true).
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find books: %w", err)
	}

	return books, nil
}

func (r *BookRepository) FindAvailableInCategories(ctx context.Context, categoryIDs, excludeIDs []uint64, limit int) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(categoryIDs) == 0 {
		return []uint64{}, nil
	}

	q := r.DB.WithContext(ctx).
		Model(&domain.Book{}).
		Where("category_id IN ? AND available = ?", categoryIDs, true)
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}

	var ids []uint64
	err := q.Order("COALESCE(rating, 0) DESC, id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find books in categories: %w", err)
	}

	return ids, nil
}

func (r *BookRepository) FindPopular(ctx context.Context, limit int) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []uint64
	err := r.withFavoriteCounts(ctx).
		Where("b.available = ?", true).
		Order("COUNT(f.id) DESC, COALESCE(b.rating, 0) DESC, b.id ASC").
		Limit(limit).
		Pluck("b.id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find popular books: %w", err)
	}

	return ids, nil
}

func (r *BookRepository) FindSimilar(ctx context.Context, categoryID, excludeID uint64, limit int) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []uint64
	err := r.withFavoriteCounts(ctx).
		Where("b.category_id = ? AND b.available = ? AND b.id <> ?", categoryID, true, excludeID).
		Order("COALESCE(b.rating, 0) DESC, COUNT(f.id) DESC, b.id ASC").
		Limit(limit).
		Pluck("b.id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find similar books: %w", err)
	}

	return ids, nil
}

// withFavoriteCounts groups books with their favorites so COUNT(f.id) can be ordered on.
func (r *BookRepository) withFavoriteCounts(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table("books AS b").
		Joins("LEFT JOIN favorites AS f ON f.book_id = b.id").
		Group("b.id")
}
