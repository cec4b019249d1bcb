package domain

import (
	"time"
)

// CREATE TABLE public.books (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     category_id     BIGINT NOT NULL REFERENCES categories(id),
//     title           TEXT NOT NULL,
//     author          TEXT NOT NULL,
//     isbn            VARCHAR(13) UNIQUE,
//     image_url       TEXT,
//     price           NUMERIC(10,2),
//     rating          DOUBLE PRECISION,   -- 0.0 - 5.0, nullable
//     available       BOOLEAN DEFAULT TRUE,
//     created_at      TIMESTAMPTZ DEFAULT NOW(),
//     updated_at      TIMESTAMPTZ DEFAULT NOW()
// );

type Book struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	CategoryID uint64    `gorm:"column:category_id;not null;index"`
	Category   Category  `gorm:"foreignKey:CategoryID"`
	Title      string    `gorm:"column:title;type:text;not null"`
	Author     string    `gorm:"column:author;type:text"`
	ISBN       string    `gorm:"column:isbn;size:13"`
	ImageURL   string    `gorm:"column:image_url;type:text"`
	Price      float64   `gorm:"column:price;type:numeric"`
	Rating     *float64  `gorm:"column:rating"`
	Available  bool      `gorm:"column:available;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// BookRecord is the public shape of a recommended book.
type BookRecord struct {
	ID         uint64   `json:"id"`
	Title      string   `json:"title"`
	Author     string   `json:"author"`
	Price      float64  `json:"price"`
	Rating     *float64 `json:"rating"`
	ImageURL   string   `json:"image_url"`
	CategoryID uint64   `json:"category_id"`
	Category   string   `json:"category"`
}

func (b Book) Record() BookRecord {
	return BookRecord{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Price:      b.Price,
		Rating:     b.Rating,
		ImageURL:   b.ImageURL,
		CategoryID: b.CategoryID,
		Category:   b.Category.Name,
	}
}
