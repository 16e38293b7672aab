package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/portal-berita-api/internal/models"
	"github.com/noah-isme/portal-berita-api/internal/policy"
	appErrors "github.com/noah-isme/portal-berita-api/pkg/errors"
)

type channelRepository interface {
	List(ctx context.Context, filter models.ChannelFilter) ([]models.Channel, int, error)
	FindByID(ctx context.Context, id int64) (*models.Channel, error)
	FindBySlug(ctx context.Context, slug string) (*models.Channel, error)
	Create(ctx context.Context, channel *models.Channel) error
	Update(ctx context.Context, channel *models.Channel) error
	Delete(ctx context.Context, id int64) error
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
}

type channelArticleCounter interface {
	CountByChannel(ctx context.Context, channelID int64) (int, error)
}

// ChannelService manages institution publishing channels.
type ChannelService struct {
	repo      channelRepository
	articles  channelArticleCounter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewChannelService constructs the service.
func NewChannelService(repo channelRepository, articles channelArticleCounter, validate *validator.Validate, logger *zap.Logger) *ChannelService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChannelService{repo: repo, articles: articles, validator: validate, logger: logger}
}

// ChannelRequest is the create/update payload for a channel. The
// verified flag is administrator-only and dropped for other actors.
type ChannelRequest struct {
	Name        string  `json:"nama" validate:"required,min=2"`
	Slug        string  `json:"slug" validate:"required"`
	Description *string `json:"deskripsi"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url"`
	IsVerified  *bool   `json:"is_verified"`
}

// List returns channels matching the filter.
func (s *ChannelService) List(ctx context.Context, filter models.ChannelFilter) ([]models.Channel, *models.Pagination, error) {
	channels, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list channels")
	}
	return channels, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// GetByID returns a single channel.
func (s *ChannelService) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	channel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.asNotFound(err)
	}
	return channel, nil
}

// GetBySlug returns a single channel by slug.
func (s *ChannelService) GetBySlug(ctx context.Context, slug string) (*models.Channel, error) {
	channel, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, s.asNotFound(err)
	}
	return channel, nil
}

// Create registers a channel owned by the acting institution user.
func (s *ChannelService) Create(ctx context.Context, actor *policy.Actor, req ChannelRequest) (*models.Channel, error) {
	if actor == nil || (actor.Role != models.RoleInstansi && actor.Role != models.RoleAdmin) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only institution accounts can create channels")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid channel payload")
	}
	taken, err := s.repo.SlugExists(ctx, req.Slug, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
	}
	if taken {
		return nil, appErrors.OnField(appErrors.ErrConflict, "slug", "channel with this slug already exists")
	}

	channel := &models.Channel{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		OwnerID:     actor.ID,
	}
	if actor.Role == models.RoleAdmin && req.IsVerified != nil {
		channel.IsVerified = *req.IsVerified
	}
	if err := s.repo.Create(ctx, channel); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create channel")
	}
	s.logger.Info("channel created", zap.Int64("channel_id", channel.ID), zap.Int64("owner_id", actor.ID))
	return channel, nil
}

// Update modifies a channel. Only the owner or an administrator may
// change it; the verified flag only moves for administrators.
func (s *ChannelService) Update(ctx context.Context, actor *policy.Actor, id int64, req ChannelRequest) (*models.Channel, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid channel payload")
	}
	channel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.asNotFound(err)
	}
	if !policy.OwnsOrAdmin(actor, channel.OwnerID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you can only manage your own channel")
	}
	if req.Slug != channel.Slug {
		taken, err := s.repo.SlugExists(ctx, req.Slug, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
		}
		if taken {
			return nil, appErrors.OnField(appErrors.ErrConflict, "slug", "slug already in use")
		}
	}

	channel.Name = req.Name
	channel.Slug = req.Slug
	channel.Description = req.Description
	channel.LogoURL = req.LogoURL
	if actor.Role == models.RoleAdmin && req.IsVerified != nil {
		channel.IsVerified = *req.IsVerified
	}
	if err := s.repo.Update(ctx, channel); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update channel")
	}
	return channel, nil
}

// Delete removes a channel with no attributed articles.
func (s *ChannelService) Delete(ctx context.Context, actor *policy.Actor, id int64) error {
	channel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.asNotFound(err)
	}
	if !policy.OwnsOrAdmin(actor, channel.OwnerID) {
		return appErrors.Clone(appErrors.ErrForbidden, "you can only manage your own channel")
	}
	count, err := s.articles.CountByChannel(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count channel articles")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "channel still has articles and cannot be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete channel")
	}
	s.logger.Info("channel deleted", zap.Int64("channel_id", id))
	return nil
}

func (s *ChannelService) asNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "channel not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch channel")
}
