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

type bookmarkRepository interface {
	ListByUser(ctx context.Context, filter models.BookmarkFilter) ([]models.Bookmark, int, error)
	FindByID(ctx context.Context, id int64) (*models.Bookmark, error)
	Exists(ctx context.Context, userID, articleID int64) (bool, error)
	Create(ctx context.Context, bookmark *models.Bookmark) error
	Delete(ctx context.Context, id int64) error
	DeleteByUserAndArticle(ctx context.Context, userID, articleID int64) (bool, error)
}

type bookmarkArticleReader interface {
	FindByID(ctx context.Context, id int64) (*models.Article, error)
}

// BookmarkService manages a reader's saved articles.
type BookmarkService struct {
	repo      bookmarkRepository
	articles  bookmarkArticleReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookmarkService constructs the service.
func NewBookmarkService(repo bookmarkRepository, articles bookmarkArticleReader, validate *validator.Validate, logger *zap.Logger) *BookmarkService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookmarkService{repo: repo, articles: articles, validator: validate, logger: logger}
}

// CreateBookmarkRequest saves an article for later reading.
type CreateBookmarkRequest struct {
	ArticleID int64   `json:"berita_id" validate:"required"`
	Notes     *string `json:"notes" validate:"omitempty,max=500"`
}

// List returns the actor's bookmarks.
func (s *BookmarkService) List(ctx context.Context, actor *policy.Actor, filter models.BookmarkFilter) ([]models.Bookmark, *models.Pagination, error) {
	if actor == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	filter.UserID = actor.ID
	bookmarks, total, err := s.repo.ListByUser(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookmarks")
	}
	return bookmarks, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Create saves a published article to the actor's bookmark list.
func (s *BookmarkService) Create(ctx context.Context, actor *policy.Actor, req CreateBookmarkRequest) (*models.Bookmark, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bookmark payload")
	}

	article, err := s.articles.FindByID(ctx, req.ArticleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "news article not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch article")
	}
	if policy.CanView(actor, article) != policy.ViewAllowed {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "news article not found")
	}

	exists, err := s.repo.Exists(ctx, actor.ID, req.ArticleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check bookmark")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "article is already bookmarked")
	}

	bookmark := &models.Bookmark{UserID: actor.ID, ArticleID: req.ArticleID, Notes: req.Notes}
	if err := s.repo.Create(ctx, bookmark); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create bookmark")
	}
	return bookmark, nil
}

// Delete removes a bookmark the actor owns.
func (s *BookmarkService) Delete(ctx context.Context, actor *policy.Actor, id int64) error {
	bookmark, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "bookmark not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch bookmark")
	}
	if !policy.Owns(actor, bookmark.UserID) {
		return appErrors.Clone(appErrors.ErrForbidden, "you can only remove your own bookmarks")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete bookmark")
	}
	return nil
}

// DeleteByArticle removes the actor's bookmark of a given article.
func (s *BookmarkService) DeleteByArticle(ctx context.Context, actor *policy.Actor, articleID int64) error {
	if actor == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	removed, err := s.repo.DeleteByUserAndArticle(ctx, actor.ID, articleID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete bookmark")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "bookmark not found")
	}
	return nil
}

// Exists reports whether the actor has bookmarked an article.
func (s *BookmarkService) Exists(ctx context.Context, actor *policy.Actor, articleID int64) (bool, error) {
	if actor == nil {
		return false, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	exists, err := s.repo.Exists(ctx, actor.ID, articleID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check bookmark")
	}
	return exists, nil
}
