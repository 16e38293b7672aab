package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portal-berita-api/internal/models"
)

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "bio", "avatar_url", "last_login", "created_at", "updated_at"})
}

func TestUserFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := userRows().AddRow(5, "Budi", "budi@portal.id", "hashed", "jurnalis", nil, nil, nil, now, now)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("budi@portal.id").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "budi@portal.id")
	require.NoError(t, err)
	assert.Equal(t, models.RoleJurnalis, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserEmailExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE email = $1")).
		WithArgs("budi@portal.id").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.EmailExists(context.Background(), "budi@portal.id")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Budi", "budi@portal.id", "hashed", models.RolePengguna, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, now, now))

	user := &models.User{Name: "Budi", Email: "budi@portal.id", PasswordHash: "hashed", Role: models.RolePengguna}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, int64(5), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserListFiltersByRole(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	role := models.RoleJurnalis
	rows := userRows().AddRow(5, "Budi", "budi@portal.id", "hashed", "jurnalis", nil, nil, nil, now, now)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE role").
		WithArgs(role).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE role = $1")).
		WithArgs(role).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	users, total, err := repo.List(context.Background(), models.UserFilter{Role: &role, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "budi@portal.id", users[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeRefreshToken(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	revokedAt := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at = $2 WHERE id = $1")).
		WithArgs("token-id", revokedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RevokeRefreshToken(context.Background(), "token-id", revokedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}
