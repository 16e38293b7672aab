package models

import "time"

// Bookmark represents a saved article belonging to a reader.
type Bookmark struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ArticleID int64     `db:"berita_id" json:"berita_id"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	ArticleTitle *string    `db:"berita_judul" json:"berita_judul,omitempty"`
	ArticleSlug  *string    `db:"berita_slug" json:"berita_slug,omitempty"`
	ArticleImage *string    `db:"berita_gambar" json:"berita_gambar,omitempty"`
	PublishedAt  *time.Time `db:"tanggal_publikasi" json:"tanggal_publikasi,omitempty"`
}

// BookmarkFilter captures filtering criteria for listing bookmarks.
type BookmarkFilter struct {
	UserID    int64
	Search    string
	Page      int
	Limit     int
	SortOrder string
}
