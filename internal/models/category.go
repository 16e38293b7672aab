package models

import "time"

// Category represents a news category stored in the kategori table.
type Category struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"nama" json:"nama"`
	Slug        string    `db:"slug" json:"slug"`
	Description *string   `db:"deskripsi" json:"deskripsi,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	ArticleCount *int64 `db:"article_count" json:"article_count,omitempty"`
}

// CategoryFilter captures filtering criteria for listing categories.
type CategoryFilter struct {
	Search    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}
