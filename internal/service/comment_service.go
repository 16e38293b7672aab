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

type commentRepository interface {
	List(ctx context.Context, filter models.CommentFilter) ([]models.Comment, int, error)
	FindByID(ctx context.Context, id int64) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int64) error
}

type commentArticleReader interface {
	FindByID(ctx context.Context, id int64) (*models.Article, error)
}

// CommentService manages reader comments and their moderation.
type CommentService struct {
	repo      commentRepository
	articles  commentArticleReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCommentService constructs the service.
func NewCommentService(repo commentRepository, articles commentArticleReader, validate *validator.Validate, logger *zap.Logger) *CommentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{repo: repo, articles: articles, validator: validate, logger: logger}
}

// CreateCommentRequest is the payload for posting a comment.
type CreateCommentRequest struct {
	Content  string `json:"konten" validate:"required,min=1,max=2000"`
	ParentID *int64 `json:"parent_id"`
}

// UpdateCommentRequest edits a comment. Moderation flags only move for
// moderators; other actors get them dropped silently.
type UpdateCommentRequest struct {
	Content    *string `json:"konten" validate:"omitempty,min=1,max=2000"`
	IsApproved *bool   `json:"is_approved"`
	IsReported *bool   `json:"is_reported"`
}

// ListByArticle returns comments for an article the actor can view.
// Moderators see unapproved comments too.
func (s *CommentService) ListByArticle(ctx context.Context, actor *policy.Actor, articleID int64, filter models.CommentFilter) ([]models.Comment, *models.Pagination, error) {
	article, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		return nil, nil, s.articleNotFound(err)
	}
	if policy.CanView(actor, article) != policy.ViewAllowed {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "news article not found")
	}

	filter.ArticleID = &articleID
	if !policy.HasCapability(actor, policy.CapModerateComments) {
		approved := true
		filter.IsApproved = &approved
	}
	comments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list comments")
	}
	return comments, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Create posts a comment on a published article.
func (s *CommentService) Create(ctx context.Context, actor *policy.Actor, articleID int64, req CreateCommentRequest) (*models.Comment, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid comment payload")
	}

	article, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		return nil, s.articleNotFound(err)
	}
	if article.Status != models.StatusPublished {
		if policy.CanView(actor, article) != policy.ViewAllowed {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "news article not found")
		}
		return nil, appErrors.Clone(appErrors.ErrValidation, "comments can only be made on published articles")
	}

	if req.ParentID != nil {
		parent, err := s.repo.FindByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.OnField(appErrors.ErrValidation, "parent_id", "parent comment not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch parent comment")
		}
		if parent.ArticleID != articleID {
			return nil, appErrors.OnField(appErrors.ErrValidation, "parent_id", "parent comment belongs to a different article")
		}
	}

	comment := &models.Comment{
		ArticleID:  articleID,
		UserID:     actor.ID,
		ParentID:   req.ParentID,
		Content:    req.Content,
		IsApproved: true,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create comment")
	}
	s.logger.Info("comment created", zap.Int64("comment_id", comment.ID), zap.Int64("article_id", articleID))
	return comment, nil
}

// Update edits a comment body or its moderation flags.
func (s *CommentService) Update(ctx context.Context, actor *policy.Actor, id int64, req UpdateCommentRequest) (*models.Comment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid comment payload")
	}
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "comment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch comment")
	}

	moderator := policy.HasCapability(actor, policy.CapModerateComments)
	if req.Content != nil {
		if !policy.Owns(actor, comment.UserID) && !moderator {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "you can only edit your own comments")
		}
		comment.Content = *req.Content
	}
	if moderator {
		if req.IsApproved != nil {
			comment.IsApproved = *req.IsApproved
		}
		if req.IsReported != nil {
			comment.IsReported = *req.IsReported
		}
	}

	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update comment")
	}
	return comment, nil
}

// Report marks a comment for moderator review. Any signed-in reader
// can report.
func (s *CommentService) Report(ctx context.Context, actor *policy.Actor, id int64) error {
	if actor == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "comment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch comment")
	}
	comment.IsReported = true
	if err := s.repo.Update(ctx, comment); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to report comment")
	}
	return nil
}

// Delete removes a comment and its replies. Owners and moderators only.
func (s *CommentService) Delete(ctx context.Context, actor *policy.Actor, id int64) error {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "comment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch comment")
	}
	if !policy.Owns(actor, comment.UserID) && !policy.HasCapability(actor, policy.CapModerateComments) {
		return appErrors.Clone(appErrors.ErrForbidden, "you can only delete your own comments")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete comment")
	}
	s.logger.Info("comment deleted", zap.Int64("comment_id", id))
	return nil
}

func (s *CommentService) articleNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "news article not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch article")
}
