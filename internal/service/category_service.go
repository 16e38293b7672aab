package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/portal-berita-api/internal/models"
	appErrors "github.com/noah-isme/portal-berita-api/pkg/errors"
)

type categoryRepository interface {
	List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, int, error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
}

type categoryArticleCounter interface {
	CountByCategory(ctx context.Context, categoryID int64) (int, error)
}

// CategoryService manages the news taxonomy.
type CategoryService struct {
	repo      categoryRepository
	articles  categoryArticleCounter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCategoryService constructs the service.
func NewCategoryService(repo categoryRepository, articles categoryArticleCounter, validate *validator.Validate, logger *zap.Logger) *CategoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{repo: repo, articles: articles, validator: validate, logger: logger}
}

// CategoryRequest is the create/update payload for a category.
type CategoryRequest struct {
	Name        string  `json:"nama" validate:"required,min=2"`
	Slug        string  `json:"slug" validate:"required"`
	Description *string `json:"deskripsi"`
}

// List returns categories with their published article counts.
func (s *CategoryService) List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, *models.Pagination, error) {
	categories, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return categories, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// GetByID returns a single category.
func (s *CategoryService) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.asNotFound(err)
	}
	return category, nil
}

// GetBySlug returns a single category by slug.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, s.asNotFound(err)
	}
	return category, nil
}

// Create adds a category. Access is restricted to administrators at
// the routing layer.
func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid category payload")
	}
	taken, err := s.repo.SlugExists(ctx, req.Slug, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
	}
	if taken {
		return nil, appErrors.OnField(appErrors.ErrConflict, "slug", "category with this slug already exists")
	}

	category := &models.Category{Name: req.Name, Slug: req.Slug, Description: req.Description}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create category")
	}
	s.logger.Info("category created", zap.Int64("category_id", category.ID))
	return category, nil
}

// Update modifies a category.
func (s *CategoryService) Update(ctx context.Context, id int64, req CategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid category payload")
	}
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.asNotFound(err)
	}
	if req.Slug != category.Slug {
		taken, err := s.repo.SlugExists(ctx, req.Slug, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slug")
		}
		if taken {
			return nil, appErrors.OnField(appErrors.ErrConflict, "slug", "slug already in use")
		}
	}

	category.Name = req.Name
	category.Slug = req.Slug
	category.Description = req.Description
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update category")
	}
	return category, nil
}

// Delete removes a category. A category still referenced by articles
// cannot be removed.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return s.asNotFound(err)
	}
	count, err := s.articles.CountByCategory(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count category articles")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "category still has articles and cannot be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete category")
	}
	s.logger.Info("category deleted", zap.Int64("category_id", id))
	return nil
}

func (s *CategoryService) asNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "category not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch category")
}
