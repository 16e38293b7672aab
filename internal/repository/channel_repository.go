package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/portal-berita-api/internal/models"
)

// ChannelRepository provides persistence for institution channels.
type ChannelRepository struct {
	db *sqlx.DB
}

// NewChannelRepository creates the repository.
func NewChannelRepository(db *sqlx.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

const channelColumns = `ki.id, ki.nama, ki.slug, ki.deskripsi, ki.logo_url, ki.user_id, ki.is_verified,
ki.created_at, ki.updated_at, u.name AS owner_name`

// List returns channels matching the filter.
func (r *ChannelRepository) List(ctx context.Context, filter models.ChannelFilter) ([]models.Channel, int, error) {
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(ki.nama ILIKE $%d OR ki.deskripsi ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("ki.user_id = $%d", len(args)+1))
		args = append(args, *filter.OwnerID)
	}
	if filter.IsVerified != nil {
		conditions = append(conditions, fmt.Sprintf("ki.is_verified = $%d", len(args)+1))
		args = append(args, *filter.IsVerified)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"nama": true, "slug": true, "is_verified": true, "created_at": true}
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

	query := fmt.Sprintf(`SELECT %s FROM kanal_instansi ki
LEFT JOIN users u ON ki.user_id = u.id%s
ORDER BY ki.%s %s LIMIT %d OFFSET %d`, channelColumns, whereClause, sortBy, sortOrder, limit, offset)
	var channels []models.Channel
	if err := r.db.SelectContext(ctx, &channels, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list channels: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM kanal_instansi ki%s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count channels: %w", err)
	}
	return channels, total, nil
}

// FindByID returns a channel by identifier.
func (r *ChannelRepository) FindByID(ctx context.Context, id int64) (*models.Channel, error) {
	query := fmt.Sprintf("SELECT %s FROM kanal_instansi ki LEFT JOIN users u ON ki.user_id = u.id WHERE ki.id = $1", channelColumns)
	var channel models.Channel
	if err := r.db.GetContext(ctx, &channel, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find channel by id: %w", err)
	}
	return &channel, nil
}

// FindBySlug returns a channel by slug.
func (r *ChannelRepository) FindBySlug(ctx context.Context, slug string) (*models.Channel, error) {
	query := fmt.Sprintf("SELECT %s FROM kanal_instansi ki LEFT JOIN users u ON ki.user_id = u.id WHERE ki.slug = $1", channelColumns)
	var channel models.Channel
	if err := r.db.GetContext(ctx, &channel, query, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find channel by slug: %w", err)
	}
	return &channel, nil
}

// Create inserts a new channel.
func (r *ChannelRepository) Create(ctx context.Context, channel *models.Channel) error {
	const query = `INSERT INTO kanal_instansi (nama, slug, deskripsi, logo_url, user_id, is_verified, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, channel.Name, channel.Slug, channel.Description, channel.LogoURL, channel.OwnerID, channel.IsVerified)
	if err := row.Scan(&channel.ID, &channel.CreatedAt, &channel.UpdatedAt); err != nil {
		return fmt.Errorf("create channel: %w", err)
	}
	return nil
}

// Update modifies an existing channel.
func (r *ChannelRepository) Update(ctx context.Context, channel *models.Channel) error {
	const query = `UPDATE kanal_instansi SET nama = $2, slug = $3, deskripsi = $4, logo_url = $5,
is_verified = $6, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, channel.ID, channel.Name, channel.Slug, channel.Description, channel.LogoURL, channel.IsVerified); err != nil {
		return fmt.Errorf("update channel: %w", err)
	}
	return nil
}

// Delete removes a channel.
func (r *ChannelRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM kanal_instansi WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return nil
}

// SlugExists reports whether a channel slug is taken.
func (r *ChannelRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	query := "SELECT COUNT(*) FROM kanal_instansi WHERE slug = $1"
	args := []interface{}{slug}
	if excludeID > 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check channel slug: %w", err)
	}
	return count > 0, nil
}
