package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/portal-berita-api/internal/models"
	"github.com/noah-isme/portal-berita-api/internal/policy"
	appErrors "github.com/noah-isme/portal-berita-api/pkg/errors"
)

type articleRepository interface {
	List(ctx context.Context, filter models.ArticleFilter) ([]models.Article, int, error)
	FindByID(ctx context.Context, id int64) (*models.Article, error)
	FindBySlug(ctx context.Context, slug string) (*models.Article, error)
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, id int64, patch models.ArticlePatch) error
	Delete(ctx context.Context, id int64) error
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	Stats(ctx context.Context, authorID *int64, now time.Time) (*models.ArticleStats, error)
}

type categoryReader interface {
	FindByID(ctx context.Context, id int64) (*models.Category, error)
}

type channelReader interface {
	FindByID(ctx context.Context, id int64) (*models.Channel, error)
}

// viewRecorder dispatches view-count increments off the request path.
type viewRecorder interface {
	Record(articleID int64)
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ArticleService implements the publication workflow use cases.
type ArticleService struct {
	repo       articleRepository
	categories categoryReader
	channels   channelReader
	views      viewRecorder
	validator  *validator.Validate
	logger     *zap.Logger
	metrics    *MetricsService
	now        func() time.Time
}

// NewArticleService constructs the service.
func NewArticleService(repo articleRepository, categories categoryReader, channels channelReader, views viewRecorder, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *ArticleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ArticleService{
		repo:       repo,
		categories: categories,
		channels:   channels,
		views:      views,
		validator:  validate,
		logger:     logger,
		metrics:    metrics,
		now:        func() time.Time { return time.Now().UTC() },
	}
	_ = svc.validator.RegisterValidation("articlestatus", func(fl validator.FieldLevel) bool {
		return models.ValidStatus(models.ArticleStatus(fl.Field().String()))
	})
	_ = svc.validator.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return svc
}

// CreateArticleRequest describes the create payload.
type CreateArticleRequest struct {
	Title           string   `json:"judul" validate:"required,min=3"`
	Slug            string   `json:"slug" validate:"required,slug"`
	Content         string   `json:"konten" validate:"required"`
	Summary         *string  `json:"ringkasan"`
	ImageURL        *string  `json:"gambar_utama" validate:"omitempty,url"`
	Tags            []string `json:"tags" validate:"max=15,dive,required"`
	CategoryID      int64    `json:"kategori_id" validate:"required"`
	ChannelID       *int64   `json:"kanal_instansi_id"`
	Status          string   `json:"status" validate:"omitempty,articlestatus"`
	MetaTitle       *string  `json:"meta_title"`
	MetaDescription *string  `json:"meta_description"`
	IsFeatured      bool     `json:"is_featured"`
	IsBreakingNews  bool     `json:"is_breaking_news"`
}

// UpdateArticleRequest describes the partial update payload. Absent
// fields leave the stored value untouched.
type UpdateArticleRequest struct {
	Title           *string   `json:"judul" validate:"omitempty,min=3"`
	Slug            *string   `json:"slug" validate:"omitempty,slug"`
	Content         *string   `json:"konten"`
	Summary         *string   `json:"ringkasan"`
	ImageURL        *string   `json:"gambar_utama" validate:"omitempty,url"`
	Tags            *[]string `json:"tags" validate:"omitempty,max=15,dive,required"`
	CategoryID      *int64    `json:"kategori_id"`
	ChannelID       *int64    `json:"kanal_instansi_id"`
	Status          *string   `json:"status" validate:"omitempty,articlestatus"`
	MetaTitle       *string   `json:"meta_title"`
	MetaDescription *string   `json:"meta_description"`
	IsFeatured      *bool     `json:"is_featured"`
	IsBreakingNews  *bool     `json:"is_breaking_news"`
}

// ChangeStatusRequest is the payload of the dedicated status endpoint.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,articlestatus"`
}

// List returns articles visible to the actor.
func (s *ArticleService) List(ctx context.Context, actor *policy.Actor, filter models.ArticleFilter) ([]models.Article, *models.Pagination, error) {
	filter = policy.NarrowListFilter(actor, filter)
	articles, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list articles")
	}
	return articles, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// ListOwn returns the actor's own articles in any status.
func (s *ArticleService) ListOwn(ctx context.Context, actor *policy.Actor, filter models.ArticleFilter) ([]models.Article, *models.Pagination, error) {
	filter = policy.NarrowOwnListFilter(actor, filter)
	articles, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list articles")
	}
	return articles, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// GetByID returns a single article, applying the visibility policy and
// recording a view on qualifying reads.
func (s *ArticleService) GetByID(ctx context.Context, actor *policy.Actor, id int64) (*models.Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.asNotFound(err)
	}
	return s.finishRead(actor, article)
}

// GetBySlug returns a single article by slug under the same policy.
func (s *ArticleService) GetBySlug(ctx context.Context, actor *policy.Actor, slug string) (*models.Article, error) {
	article, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, s.asNotFound(err)
	}
	return s.finishRead(actor, article)
}

func (s *ArticleService) finishRead(actor *policy.Actor, article *models.Article) (*models.Article, error) {
	if policy.CanView(actor, article) != policy.ViewAllowed {
		// Indistinguishable from a true miss so drafts cannot be enumerated.
		return nil, appErrors.Clone(appErrors.ErrNotFound, "news article not found")
	}
	if article.Status == models.StatusPublished && s.views != nil {
		s.views.Record(article.ID)
		article.ViewsCount++
	}
	return article, nil
}

// Create validates cross references, derives the initial workflow
// status and persists a new article.
func (s *ArticleService) Create(ctx context.Context, actor *policy.Actor, req CreateArticleRequest) (*models.Article, error) {
	if !policy.CanCreate(actor) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you do not have permission to create articles")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid article payload")
	}

	taken, err := s.repo.SlugExists(ctx, req.Slug, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
	}
	if taken {
		return nil, appErrors.OnField(appErrors.ErrConflict, "slug", "news article with this slug already exists")
	}

	if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.OnField(appErrors.ErrValidation, "kategori_id", "invalid category ID")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check category")
	}

	if req.ChannelID != nil {
		if err := s.checkChannel(ctx, actor, *req.ChannelID); err != nil {
			return nil, err
		}
	}

	status := policy.DeriveInitialStatus(actor.Role, models.ArticleStatus(req.Status))
	var publishedAt *time.Time
	if status == models.StatusPublished {
		ts := s.now()
		publishedAt = &ts
	}

	canSetFlags := policy.CanSetFlags(actor)
	article := &models.Article{
		Title:           req.Title,
		Slug:            req.Slug,
		Content:         req.Content,
		Summary:         req.Summary,
		ImageURL:        req.ImageURL,
		Tags:            req.Tags,
		Status:          status,
		PublishedAt:     publishedAt,
		AuthorID:        actor.ID,
		CategoryID:      req.CategoryID,
		ChannelID:       req.ChannelID,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		IsFeatured:      canSetFlags && req.IsFeatured,
		IsBreakingNews:  canSetFlags && req.IsBreakingNews,
	}
	if article.Tags == nil {
		article.Tags = []string{}
	}

	if err := s.repo.Create(ctx, article); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create article")
	}

	if status == models.StatusPublished && s.metrics != nil {
		s.metrics.ObserveArticlePublished()
	}
	s.logger.Info("article created",
		zap.Int64("article_id", article.ID),
		zap.Int64("author_id", actor.ID),
		zap.String("status", string(status)))
	return article, nil
}

// Update applies a partial update under the mutation policy. Status and
// flag fields the actor may not write are dropped silently; the rest of
// the patch still applies.
func (s *ArticleService) Update(ctx context.Context, actor *policy.Actor, id int64, req UpdateArticleRequest) (*models.Article, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid article payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.asNotFound(err)
	}
	if !policy.CanMutate(actor, existing) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you can only edit your own articles")
	}

	if req.Slug != nil && *req.Slug != existing.Slug {
		taken, err := s.repo.SlugExists(ctx, *req.Slug, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
		}
		if taken {
			return nil, appErrors.OnField(appErrors.ErrConflict, "slug", "slug already in use")
		}
	}

	if req.CategoryID != nil && *req.CategoryID != existing.CategoryID {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.OnField(appErrors.ErrValidation, "kategori_id", "invalid category ID")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check category")
		}
	}

	if req.ChannelID != nil && (existing.ChannelID == nil || *req.ChannelID != *existing.ChannelID) {
		if err := s.checkChannel(ctx, actor, *req.ChannelID); err != nil {
			return nil, err
		}
	}

	patch := models.ArticlePatch{
		Title:           req.Title,
		Slug:            req.Slug,
		Content:         req.Content,
		Summary:         req.Summary,
		ImageURL:        req.ImageURL,
		Tags:            req.Tags,
		CategoryID:      req.CategoryID,
		ChannelID:       req.ChannelID,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		IsFeatured:      req.IsFeatured,
		IsBreakingNews:  req.IsBreakingNews,
	}
	if req.Status != nil {
		status := models.ArticleStatus(*req.Status)
		patch.Status = &status
	}
	patch = policy.SanitizeArticlePatch(actor, patch)

	if patch.Status != nil {
		transition, ok := policy.ApplyStatusTransition(existing.Status, *patch.Status, actor.Role, false, s.now())
		if ok {
			patch.Status = &transition.Status
			patch.PublishedAt = transition.PublishedAt
		} else {
			patch.Status = nil
		}
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update article")
	}

	if patch.Status != nil && *patch.Status == models.StatusPublished && existing.Status != models.StatusPublished && s.metrics != nil {
		s.metrics.ObserveArticlePublished()
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload article")
	}
	s.logger.Info("article updated", zap.Int64("article_id", id), zap.Int64("actor_id", actor.ID))
	return updated, nil
}

// ChangeStatus is the dedicated editorial status transition. Ownership
// does not apply; only the editorial gate does.
func (s *ArticleService) ChangeStatus(ctx context.Context, actor *policy.Actor, id int64, req ChangeStatusRequest) (*models.Article, error) {
	if !policy.CanChangeStatus(actor) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you do not have permission to change article status")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.asNotFound(err)
	}

	transition, _ := policy.ApplyStatusTransition(existing.Status, models.ArticleStatus(req.Status), actor.Role, true, s.now())
	patch := models.ArticlePatch{Status: &transition.Status, PublishedAt: transition.PublishedAt}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update article status")
	}

	if transition.Status == models.StatusPublished && existing.Status != models.StatusPublished && s.metrics != nil {
		s.metrics.ObserveArticlePublished()
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload article")
	}
	s.logger.Info("article status changed",
		zap.Int64("article_id", id),
		zap.String("status", req.Status),
		zap.Int64("actor_id", actor.ID))
	return updated, nil
}

// Delete removes an article under the mutation policy.
func (s *ArticleService) Delete(ctx context.Context, actor *policy.Actor, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.asNotFound(err)
	}
	if !policy.CanMutate(actor, existing) {
		return appErrors.Clone(appErrors.ErrForbidden, "you can only delete your own articles")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete article")
	}
	s.logger.Info("article deleted", zap.Int64("article_id", id), zap.Int64("actor_id", actor.ID))
	return nil
}

// Stats returns aggregate counts. Admins see the whole portal; other
// editorial users see their own articles only.
func (s *ArticleService) Stats(ctx context.Context, actor *policy.Actor) (*models.ArticleStats, error) {
	if !policy.HasCapability(actor, policy.CapEditorial) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you do not have permission to view article statistics")
	}
	var authorID *int64
	if actor.Role != models.RoleAdmin {
		authorID = &actor.ID
	}
	stats, err := s.repo.Stats(ctx, authorID, s.now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load statistics")
	}
	return stats, nil
}

func (s *ArticleService) checkChannel(ctx context.Context, actor *policy.Actor, channelID int64) error {
	channel, err := s.channels.FindByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.OnField(appErrors.ErrValidation, "kanal_instansi_id", "invalid institution channel ID")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check channel")
	}
	if !policy.CanUseChannel(actor, channel.OwnerID) {
		return appErrors.Clone(appErrors.ErrForbidden, "you can only publish to your own institution channel")
	}
	return nil
}

func (s *ArticleService) asNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "news article not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch article")
}
