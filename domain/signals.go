package domain

import "time"

// CREATE TABLE public.user_interests (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id         BIGINT NOT NULL,
//     category_id     BIGINT NOT NULL REFERENCES categories(id),
//     level           INT NOT NULL CHECK (level BETWEEN 1 AND 10),
//     created_at      TIMESTAMPTZ DEFAULT NOW(),
//     updated_at      TIMESTAMPTZ DEFAULT NOW()
// );

type UserInterest struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	UserID     uint64    `gorm:"column:user_id;not null;index"`
	CategoryID uint64    `gorm:"column:category_id;not null"`
	Level      int       `gorm:"column:level;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (UserInterest) TableName() string {
	return "user_interests"
}

// CREATE TABLE public.favorites (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id         BIGINT NOT NULL,
//     book_id         BIGINT NOT NULL REFERENCES books(id),
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

type Favorite struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"column:user_id;not null;index"`
	BookID    uint64    `gorm:"column:book_id;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// CREATE TABLE public.peer_recommendations (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id         BIGINT NOT NULL,
//     book_id         BIGINT NOT NULL REFERENCES books(id),
//     kind            TEXT,               -- friend, family, colleague, other
//     rating          DOUBLE PRECISION NOT NULL CHECK (rating BETWEEN 0 AND 5),
//     reason          VARCHAR(500),
//     seen            BOOLEAN DEFAULT FALSE,
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

type PeerRecommendation struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"column:user_id;not null;index"`
	BookID    uint64    `gorm:"column:book_id;not null"`
	Kind      string    `gorm:"column:kind;type:text"`
	Rating    float64   `gorm:"column:rating;not null"`
	Reason    string    `gorm:"column:reason;size:500"`
	Seen      bool      `gorm:"column:seen;default:false"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (PeerRecommendation) TableName() string {
	return "peer_recommendations"
}

// CategorySignal is one (user, category, value) observation feeding the
// feature matrices: an interest level, a favorite count or a peer rating.
type CategorySignal struct {
	UserID     uint64  `gorm:"column:user_id"`
	CategoryID uint64  `gorm:"column:category_id"`
	Value      float64 `gorm:"column:value"`
}
