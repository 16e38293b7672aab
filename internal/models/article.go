package models

import (
	"time"

	"github.com/lib/pq"
)

// ArticleStatus represents the workflow state of a news article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusReview    ArticleStatus = "review"
	StatusPublished ArticleStatus = "published"
	StatusRejected  ArticleStatus = "rejected"
	StatusArchived  ArticleStatus = "archived"
)

// ValidStatus reports whether the literal is a known workflow state.
func ValidStatus(s ArticleStatus) bool {
	switch s {
	case StatusDraft, StatusReview, StatusPublished, StatusRejected, StatusArchived:
		return true
	default:
		return false
	}
}

// Article represents a news article stored in the berita table.
type Article struct {
	ID              int64          `db:"id" json:"id"`
	Title           string         `db:"judul" json:"judul"`
	Slug            string         `db:"slug" json:"slug"`
	Content         string         `db:"konten" json:"konten"`
	Summary         *string        `db:"ringkasan" json:"ringkasan,omitempty"`
	ImageURL        *string        `db:"gambar_utama" json:"gambar_utama,omitempty"`
	Tags            pq.StringArray `db:"tags" json:"tags"`
	Status          ArticleStatus  `db:"status" json:"status"`
	PublishedAt     *time.Time     `db:"tanggal_publikasi" json:"tanggal_publikasi,omitempty"`
	ViewsCount      int64          `db:"views_count" json:"views_count"`
	LikesCount      int64          `db:"likes_count" json:"likes_count"`
	SharesCount     int64          `db:"shares_count" json:"shares_count"`
	AuthorID        int64          `db:"author_id" json:"author_id"`
	CategoryID      int64          `db:"kategori_id" json:"kategori_id"`
	ChannelID       *int64         `db:"kanal_instansi_id" json:"kanal_instansi_id,omitempty"`
	MetaTitle       *string        `db:"meta_title" json:"meta_title,omitempty"`
	MetaDescription *string        `db:"meta_description" json:"meta_description,omitempty"`
	IsFeatured      bool           `db:"is_featured" json:"is_featured"`
	IsBreakingNews  bool           `db:"is_breaking_news" json:"is_breaking_news"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`

	// Joined display columns, populated on read paths only.
	AuthorName   *string `db:"author_name" json:"author_name,omitempty"`
	AuthorEmail  *string `db:"author_email" json:"author_email,omitempty"`
	CategoryName *string `db:"kategori_nama" json:"kategori_nama,omitempty"`
	CategorySlug *string `db:"kategori_slug" json:"kategori_slug,omitempty"`
	ChannelName  *string `db:"kanal_nama" json:"kanal_nama,omitempty"`
	ChannelSlug  *string `db:"kanal_slug" json:"kanal_slug,omitempty"`
}

// ArticleFilter captures filtering criteria for listing articles.
type ArticleFilter struct {
	Search         string
	CategoryID     *int64
	Status         *ArticleStatus
	AuthorID       *int64
	ChannelID      *int64
	IsFeatured     *bool
	IsBreakingNews *bool
	Page           int
	Limit          int
	SortBy         string
	SortOrder      string
}

// ArticlePatch holds partial updates to an article. Nil fields are
// left untouched by the repository.
type ArticlePatch struct {
	Title           *string
	Slug            *string
	Content         *string
	Summary         *string
	ImageURL        *string
	Tags            *[]string
	CategoryID      *int64
	ChannelID       *int64
	MetaTitle       *string
	MetaDescription *string
	Status          *ArticleStatus
	PublishedAt     *time.Time
	IsFeatured      *bool
	IsBreakingNews  *bool
}

// ArticleStats aggregates article counts per workflow state.
type ArticleStats struct {
	TotalArticles    int64    `db:"total_articles" json:"total_articles"`
	Published        int64    `db:"published_articles" json:"published_articles"`
	Draft            int64    `db:"draft_articles" json:"draft_articles"`
	Review           int64    `db:"review_articles" json:"review_articles"`
	Rejected         int64    `db:"rejected_articles" json:"rejected_articles"`
	Archived         int64    `db:"archived_articles" json:"archived_articles"`
	Featured         int64    `db:"featured_articles" json:"featured_articles"`
	BreakingNews     int64    `db:"breaking_news_articles" json:"breaking_news_articles"`
	ArticlesToday    int64    `db:"articles_today" json:"articles_today"`
	ArticlesThisWeek int64    `db:"articles_this_week" json:"articles_this_week"`
	AvgViews         *float64 `db:"avg_views" json:"avg_views,omitempty"`
	MaxViews         *int64   `db:"max_views" json:"max_views,omitempty"`
}
