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

type userAdminRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	UpdateRole(ctx context.Context, id int64, role models.UserRole) error
	Delete(ctx context.Context, id int64) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// UserService provides administrator account management.
type UserService struct {
	repo      userAdminRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(repo userAdminRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// UpdateRoleRequest changes a user's role.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// List returns user accounts matching the filter.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// GetByID returns a single user account.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	return user, nil
}

// UpdateRole assigns a new role to a user.
func (s *UserService) UpdateRole(ctx context.Context, actor *policy.Actor, id int64, req UpdateRoleRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}
	role := models.UserRole(req.Role)
	if !models.ValidRole(role) {
		return nil, appErrors.OnField(appErrors.ErrValidation, "role", "unknown role")
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update role")
	}

	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actor.ID,
		Action:     "update_role",
		Resource:   "users",
		ResourceID: &id,
		NewValues:  []byte(`{"role":"` + string(role) + `"}`),
	}); err != nil {
		s.logger.Warn("failed to record role change audit log", zap.Error(err))
	}

	user.Role = role
	s.logger.Info("user role updated",
		zap.Int64("user_id", id),
		zap.String("role", string(role)),
		zap.Int64("actor_id", actor.ID))
	return user, nil
}

// Delete removes a user account. Administrators cannot delete their
// own account.
func (s *UserService) Delete(ctx context.Context, actor *policy.Actor, id int64) error {
	if actor != nil && actor.ID == id {
		return appErrors.Clone(appErrors.ErrValidation, "you cannot delete your own account")
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	s.logger.Info("user deleted", zap.Int64("user_id", id))
	return nil
}
