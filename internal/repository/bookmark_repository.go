package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/portal-berita-api/internal/models"
)

// BookmarkRepository provides persistence for reader bookmarks.
type BookmarkRepository struct {
	db *sqlx.DB
}

// NewBookmarkRepository creates the repository.
func NewBookmarkRepository(db *sqlx.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

const bookmarkColumns = `bm.id, bm.user_id, bm.berita_id, bm.notes, bm.created_at,
b.judul AS berita_judul, b.slug AS berita_slug, b.gambar_utama AS berita_gambar, b.tanggal_publikasi`

// ListByUser returns the user's bookmarks, newest first.
func (r *BookmarkRepository) ListByUser(ctx context.Context, filter models.BookmarkFilter) ([]models.Bookmark, int, error) {
	conditions := []string{"bm.user_id = $1"}
	args := []interface{}{filter.UserID}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("b.judul ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	whereClause := " WHERE " + strings.Join(conditions, " AND ")

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
		limit = 20
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`SELECT %s FROM bookmarks bm
JOIN berita b ON bm.berita_id = b.id%s
ORDER BY bm.created_at %s LIMIT %d OFFSET %d`, bookmarkColumns, whereClause, sortOrder, limit, offset)
	var bookmarks []models.Bookmark
	if err := r.db.SelectContext(ctx, &bookmarks, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bookmarks: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM bookmarks bm JOIN berita b ON bm.berita_id = b.id%s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count bookmarks: %w", err)
	}
	return bookmarks, total, nil
}

// FindByID returns a bookmark by identifier.
func (r *BookmarkRepository) FindByID(ctx context.Context, id int64) (*models.Bookmark, error) {
	query := fmt.Sprintf("SELECT %s FROM bookmarks bm JOIN berita b ON bm.berita_id = b.id WHERE bm.id = $1", bookmarkColumns)
	var bookmark models.Bookmark
	if err := r.db.GetContext(ctx, &bookmark, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find bookmark by id: %w", err)
	}
	return &bookmark, nil
}

// Exists reports whether the user already bookmarked the article.
func (r *BookmarkRepository) Exists(ctx context.Context, userID, articleID int64) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM bookmarks WHERE user_id = $1 AND berita_id = $2", userID, articleID); err != nil {
		return false, fmt.Errorf("check bookmark: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new bookmark.
func (r *BookmarkRepository) Create(ctx context.Context, bookmark *models.Bookmark) error {
	const query = `INSERT INTO bookmarks (user_id, berita_id, notes, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query, bookmark.UserID, bookmark.ArticleID, bookmark.Notes)
	if err := row.Scan(&bookmark.ID, &bookmark.CreatedAt); err != nil {
		return fmt.Errorf("create bookmark: %w", err)
	}
	return nil
}

// Delete removes a bookmark by identifier.
func (r *BookmarkRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM bookmarks WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}

// DeleteByUserAndArticle removes the user's bookmark for an article and
// reports whether a row was removed.
func (r *BookmarkRepository) DeleteByUserAndArticle(ctx context.Context, userID, articleID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM bookmarks WHERE user_id = $1 AND berita_id = $2", userID, articleID)
	if err != nil {
		return false, fmt.Errorf("delete bookmark: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, nil
	}
	return affected > 0, nil
}
