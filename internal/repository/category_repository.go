package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/portal-berita-api/internal/models"
)

// CategoryRepository provides persistence for news categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates the repository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns categories with their article counts.
func (r *CategoryRepository) List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, int, error) {
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(k.nama ILIKE $%d OR k.deskripsi ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"nama": true, "slug": true, "created_at": true, "updated_at": true}
	if !allowedSorts[sortBy] {
		sortBy = "nama"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "ASC"
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

	query := fmt.Sprintf(`SELECT k.id, k.nama, k.slug, k.deskripsi, k.created_at, k.updated_at,
COUNT(b.id) AS article_count
FROM kategori k
LEFT JOIN berita b ON b.kategori_id = k.id AND b.status = 'published'%s
GROUP BY k.id
ORDER BY k.%s %s LIMIT %d OFFSET %d`, whereClause, sortBy, sortOrder, limit, offset)
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM kategori k%s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}
	return categories, total, nil
}

// FindByID returns a category by identifier.
func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	const query = `SELECT id, nama, slug, deskripsi, created_at, updated_at FROM kategori WHERE id = $1`
	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return &category, nil
}

// FindBySlug returns a category by slug.
func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	const query = `SELECT id, nama, slug, deskripsi, created_at, updated_at FROM kategori WHERE slug = $1`
	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return &category, nil
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	const query = `INSERT INTO kategori (nama, slug, deskripsi, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, category.Name, category.Slug, category.Description)
	if err := row.Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Update modifies an existing category.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	const query = `UPDATE kategori SET nama = $2, slug = $3, deskripsi = $4, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, category.ID, category.Name, category.Slug, category.Description); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM kategori WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// SlugExists reports whether a category slug is taken.
func (r *CategoryRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	query := "SELECT COUNT(*) FROM kategori WHERE slug = $1"
	args := []interface{}{slug}
	if excludeID > 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check category slug: %w", err)
	}
	return count > 0, nil
}
