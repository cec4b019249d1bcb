package domain

import "time"

// CREATE TABLE public.recommendation_models (
//     name            VARCHAR(64) PRIMARY KEY,
//     artifact        BYTEA NOT NULL,
//     users           INT NOT NULL,
//     updated_at      TIMESTAMPTZ DEFAULT NOW()
// );

// RecommendationModel holds the encoded similarity model when models are
// kept in the database instead of on disk.
type RecommendationModel struct {
	Name      string    `gorm:"column:name;primaryKey;size:64"`
	Artifact  []byte    `gorm:"column:artifact;not null"`
	Users     int       `gorm:"column:users;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (RecommendationModel) TableName() string {
	return "recommendation_models"
}
