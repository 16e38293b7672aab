package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/portal-berita-api/internal/models"
)

const articleColumns = `b.id, b.judul, b.slug, b.konten, b.ringkasan, b.gambar_utama, b.tags, b.status,
b.tanggal_publikasi, b.views_count, b.likes_count, b.shares_count, b.author_id, b.kategori_id,
b.kanal_instansi_id, b.meta_title, b.meta_description, b.is_featured, b.is_breaking_news,
b.created_at, b.updated_at,
u.name AS author_name, u.email AS author_email,
k.nama AS kategori_nama, k.slug AS kategori_slug,
ki.nama AS kanal_nama, ki.slug AS kanal_slug`

const articleJoins = `FROM berita b
LEFT JOIN users u ON b.author_id = u.id
LEFT JOIN kategori k ON b.kategori_id = k.id
LEFT JOIN kanal_instansi ki ON b.kanal_instansi_id = ki.id`

// articleSortFields is the allow-list of sortable columns. Anything
// outside it falls back to created_at so caller input never reaches the
// ORDER BY clause verbatim.
var articleSortFields = map[string]bool{
	"id":                true,
	"judul":             true,
	"slug":              true,
	"status":            true,
	"tanggal_publikasi": true,
	"views_count":       true,
	"likes_count":       true,
	"shares_count":      true,
	"is_featured":       true,
	"is_breaking_news":  true,
	"created_at":        true,
	"updated_at":        true,
}

// ArticleRepository provides persistence for news articles.
type ArticleRepository struct {
	db *sqlx.DB
}

// NewArticleRepository creates the repository.
func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// List returns articles matching the filter with a total count. The
// filter is expected to be narrowed by the policy layer already; this
// method only translates it into SQL.
func (r *ArticleRepository) List(ctx context.Context, filter models.ArticleFilter) ([]models.Article, int, error) {
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(b.judul ILIKE $%d OR b.konten ILIKE $%d OR b.ringkasan ILIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("b.kategori_id = $%d", len(args)+1))
		args = append(args, *filter.CategoryID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.AuthorID != nil {
		conditions = append(conditions, fmt.Sprintf("b.author_id = $%d", len(args)+1))
		args = append(args, *filter.AuthorID)
	}
	if filter.ChannelID != nil {
		conditions = append(conditions, fmt.Sprintf("b.kanal_instansi_id = $%d", len(args)+1))
		args = append(args, *filter.ChannelID)
	}
	if filter.IsFeatured != nil {
		conditions = append(conditions, fmt.Sprintf("b.is_featured = $%d", len(args)+1))
		args = append(args, *filter.IsFeatured)
	}
	if filter.IsBreakingNews != nil {
		conditions = append(conditions, fmt.Sprintf("b.is_breaking_news = $%d", len(args)+1))
		args = append(args, *filter.IsBreakingNews)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if !articleSortFields[sortBy] {
		sortBy = "created_at"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf("SELECT %s %s%s ORDER BY b.%s %s LIMIT %d OFFSET %d",
		articleColumns, articleJoins, whereClause, sortBy, sortOrder, limit, offset)
	var articles []models.Article
	if err := r.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM berita b%s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}
	return articles, total, nil
}

// FindByID returns an article with joined author/category/channel data.
func (r *ArticleRepository) FindByID(ctx context.Context, id int64) (*models.Article, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE b.id = $1", articleColumns, articleJoins)
	var article models.Article
	if err := r.db.GetContext(ctx, &article, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return &article, nil
}

// FindBySlug returns an article by its slug.
func (r *ArticleRepository) FindBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE b.slug = $1", articleColumns, articleJoins)
	var article models.Article
	if err := r.db.GetContext(ctx, &article, query, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find article by slug: %w", err)
	}
	return &article, nil
}

// Create inserts a new article and fills the generated identity and
// timestamps.
func (r *ArticleRepository) Create(ctx context.Context, article *models.Article) error {
	const query = `INSERT INTO berita (judul, slug, konten, ringkasan, gambar_utama, tags, status,
tanggal_publikasi, author_id, kategori_id, kanal_instansi_id, meta_title, meta_description,
is_featured, is_breaking_news, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query,
		article.Title,
		article.Slug,
		article.Content,
		article.Summary,
		article.ImageURL,
		pq.Array([]string(article.Tags)),
		article.Status,
		article.PublishedAt,
		article.AuthorID,
		article.CategoryID,
		article.ChannelID,
		article.MetaTitle,
		article.MetaDescription,
		article.IsFeatured,
		article.IsBreakingNews,
	)
	if err := row.Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt); err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

// Update applies a partial patch to an article. Nil patch fields are
// skipped. When the patch moves the article to published, the
// publication timestamp is stamped with COALESCE so the first value
// wins even under concurrent updates.
func (r *ArticleRepository) Update(ctx context.Context, id int64, patch models.ArticlePatch) error {
	var sets []string
	var args []interface{}

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if patch.Title != nil {
		add("judul", *patch.Title)
	}
	if patch.Slug != nil {
		add("slug", *patch.Slug)
	}
	if patch.Content != nil {
		add("konten", *patch.Content)
	}
	if patch.Summary != nil {
		add("ringkasan", *patch.Summary)
	}
	if patch.ImageURL != nil {
		add("gambar_utama", *patch.ImageURL)
	}
	if patch.Tags != nil {
		add("tags", pq.Array(*patch.Tags))
	}
	if patch.CategoryID != nil {
		add("kategori_id", *patch.CategoryID)
	}
	if patch.ChannelID != nil {
		add("kanal_instansi_id", *patch.ChannelID)
	}
	if patch.MetaTitle != nil {
		add("meta_title", *patch.MetaTitle)
	}
	if patch.MetaDescription != nil {
		add("meta_description", *patch.MetaDescription)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.PublishedAt != nil {
		sets = append(sets, fmt.Sprintf("tanggal_publikasi = COALESCE(tanggal_publikasi, $%d)", len(args)+1))
		args = append(args, *patch.PublishedAt)
	}
	if patch.IsFeatured != nil {
		add("is_featured", *patch.IsFeatured)
	}
	if patch.IsBreakingNews != nil {
		add("is_breaking_news", *patch.IsBreakingNews)
	}

	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE berita SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

// Delete removes an article.
func (r *ArticleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM berita WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SlugExists reports whether a slug is taken, optionally excluding a row.
func (r *ArticleRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	query := "SELECT COUNT(*) FROM berita WHERE slug = $1"
	args := []interface{}{slug}
	if excludeID > 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return count > 0, nil
}

// IncrementViews bumps the view counter in a single atomic statement.
func (r *ArticleRepository) IncrementViews(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE berita SET views_count = views_count + 1 WHERE id = $1", id); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// Stats aggregates per-status counts, optionally scoped to one author.
func (r *ArticleRepository) Stats(ctx context.Context, authorID *int64, now time.Time) (*models.ArticleStats, error) {
	query := `SELECT
COUNT(*) AS total_articles,
COUNT(*) FILTER (WHERE status = 'published') AS published_articles,
COUNT(*) FILTER (WHERE status = 'draft') AS draft_articles,
COUNT(*) FILTER (WHERE status = 'review') AS review_articles,
COUNT(*) FILTER (WHERE status = 'rejected') AS rejected_articles,
COUNT(*) FILTER (WHERE status = 'archived') AS archived_articles,
COUNT(*) FILTER (WHERE is_featured) AS featured_articles,
COUNT(*) FILTER (WHERE is_breaking_news) AS breaking_news_articles,
COUNT(*) FILTER (WHERE created_at >= $1::date) AS articles_today,
COUNT(*) FILTER (WHERE created_at >= $1 - INTERVAL '7 days') AS articles_this_week,
AVG(views_count) AS avg_views,
MAX(views_count) AS max_views
FROM berita`
	args := []interface{}{now}
	if authorID != nil {
		query += " WHERE author_id = $2"
		args = append(args, *authorID)
	}
	var stats models.ArticleStats
	if err := r.db.GetContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("article stats: %w", err)
	}
	return &stats, nil
}

// CountByCategory returns the number of articles referencing a category.
func (r *ArticleRepository) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM berita WHERE kategori_id = $1", categoryID); err != nil {
		return 0, fmt.Errorf("count by category: %w", err)
	}
	return count, nil
}

// CountByChannel returns the number of articles referencing a channel.
func (r *ArticleRepository) CountByChannel(ctx context.Context, channelID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM berita WHERE kanal_instansi_id = $1", channelID); err != nil {
		return 0, fmt.Errorf("count by channel: %w", err)
	}
	return count, nil
}
