package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"myBookShelf/business/recommendation"
	"myBookShelf/domain"
	"myBookShelf/internal/repository/modelstore"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultModelName = "user_similarity"

// ModelRepository keeps the encoded similarity model in a single
// recommendation_models row, overwritten on every save.
type ModelRepository struct {
	DB   *gorm.DB
	Name string
}

var _ recommendation.ModelStore = (*ModelRepository)(nil)

func NewModelRepository(db *gorm.DB) *ModelRepository {
	return &ModelRepository{DB: db, Name: defaultModelName}
}

func (r *ModelRepository) Save(ctx context.Context, model *recommendation.SimilarityModel) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	var buf bytes.Buffer
	if err := modelstore.Encode(&buf, model); err != nil {
		return err
	}

	row := domain.RecommendationModel{
		Name:     r.Name,
		Artifact: buf.Bytes(),
		Users:    model.Size(),
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"artifact", "users", "updated_at"}),
		},
	).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert recommendation_models: %w", err)
	}

	return nil
}

func (r *ModelRepository) Load(ctx context.Context) (*recommendation.SimilarityModel, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("context error: %w", err)
	}

	var row domain.RecommendationModel
	err := r.DB.WithContext(ctx).First(&row, "name = ?", r.Name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query recommendation_models: %w", err)
	}

	model, err := modelstore.Decode(bytes.NewReader(row.Artifact))
	if err != nil {
		return nil, false, err
	}
	return model, true, nil
}

func (r *ModelRepository) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.RecommendationModel{}).
		Where("name = ?", r.Name).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count recommendation_models: %w", err)
	}
	return count > 0, nil
}
