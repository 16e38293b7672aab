package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portal-berita-api/internal/models"
	"github.com/noah-isme/portal-berita-api/internal/policy"
	appErrors "github.com/noah-isme/portal-berita-api/pkg/errors"
)

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, len(users), nil
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id int64, role models.UserRole) error {
	u := m.users[id]
	u.Role = role
	m.users[id] = u
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	delete(m.users, id)
	return nil
}

func TestUpdateRolePromotesJournalist(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser(models.User{ID: 5, Email: "wartawan@portal.id", Role: models.RolePengguna})
	svc := NewUserService(repo, nil, nil)
	admin := &policy.Actor{ID: 1, Role: models.RoleAdmin}

	updated, err := svc.UpdateRole(context.Background(), admin, 5, UpdateRoleRequest{Role: "jurnalis"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleJurnalis, updated.Role)
	assert.Equal(t, models.RoleJurnalis, repo.users[5].Role)

	require.Len(t, repo.audits, 1)
	assert.Equal(t, "update_role", repo.audits[0].Action)
	assert.Equal(t, int64(1), *repo.audits[0].UserID)
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser(models.User{ID: 5, Email: "wartawan@portal.id", Role: models.RolePengguna})
	svc := NewUserService(repo, nil, nil)
	admin := &policy.Actor{ID: 1, Role: models.RoleAdmin}

	_, err := svc.UpdateRole(context.Background(), admin, 5, UpdateRoleRequest{Role: "superuser"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "role", appErr.Field)
	assert.Equal(t, models.RolePengguna, repo.users[5].Role)
}

func TestDeleteUserBlocksSelfDeletion(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser(models.User{ID: 1, Email: "admin@portal.id", Role: models.RoleAdmin})
	svc := NewUserService(repo, nil, nil)
	admin := &policy.Actor{ID: 1, Role: models.RoleAdmin}

	err := svc.Delete(context.Background(), admin, 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Contains(t, repo.users, int64(1))
}

func TestDeleteUserRemovesAccount(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser(models.User{ID: 1, Email: "admin@portal.id", Role: models.RoleAdmin})
	repo.addUser(models.User{ID: 5, Email: "wartawan@portal.id", Role: models.RoleJurnalis})
	svc := NewUserService(repo, nil, nil)
	admin := &policy.Actor{ID: 1, Role: models.RoleAdmin}

	require.NoError(t, svc.Delete(context.Background(), admin, 5))
	assert.NotContains(t, repo.users, int64(5))
}

func TestDeleteMissingUserNotFound(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, nil, nil)
	admin := &policy.Actor{ID: 1, Role: models.RoleAdmin}

	err := svc.Delete(context.Background(), admin, 77)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
