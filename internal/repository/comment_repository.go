package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/portal-berita-api/internal/models"
)

// CommentRepository provides persistence for article comments.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository creates the repository.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentColumns = `c.id, c.berita_id, c.user_id, c.parent_id, c.konten, c.is_approved, c.is_reported,
c.created_at, c.updated_at, u.name AS user_name, u.avatar_url AS user_avatar`

// List returns comments matching the filter with a total count.
func (r *CommentRepository) List(ctx context.Context, filter models.CommentFilter) ([]models.Comment, int, error) {
	var conditions []string
	var args []interface{}

	if filter.ArticleID != nil {
		conditions = append(conditions, fmt.Sprintf("c.berita_id = $%d", len(args)+1))
		args = append(args, *filter.ArticleID)
	}
	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("c.user_id = $%d", len(args)+1))
		args = append(args, *filter.UserID)
	}
	if filter.IsApproved != nil {
		conditions = append(conditions, fmt.Sprintf("c.is_approved = $%d", len(args)+1))
		args = append(args, *filter.IsApproved)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
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
		limit = 20
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`SELECT %s FROM komentar c
LEFT JOIN users u ON c.user_id = u.id%s
ORDER BY c.created_at %s LIMIT %d OFFSET %d`, commentColumns, whereClause, sortOrder, limit, offset)
	var comments []models.Comment
	if err := r.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM komentar c%s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}
	return comments, total, nil
}

// FindByID returns a comment by identifier.
func (r *CommentRepository) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := fmt.Sprintf("SELECT %s FROM komentar c LEFT JOIN users u ON c.user_id = u.id WHERE c.id = $1", commentColumns)
	var comment models.Comment
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return &comment, nil
}

// Create inserts a new comment.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	const query = `INSERT INTO komentar (berita_id, user_id, parent_id, konten, is_approved, is_reported, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, comment.ArticleID, comment.UserID, comment.ParentID, comment.Content, comment.IsApproved, comment.IsReported)
	if err := row.Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// Update modifies a comment's content and moderation flags.
func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	const query = `UPDATE komentar SET konten = $2, is_approved = $3, is_reported = $4, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, comment.ID, comment.Content, comment.IsApproved, comment.IsReported); err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

// Delete removes a comment and its replies.
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM komentar WHERE id = $1 OR parent_id = $1", id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
