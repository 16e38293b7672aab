package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/portal-berita-api/internal/models"
	appErrors "github.com/noah-isme/portal-berita-api/pkg/errors"
)

type mockUserRepo struct {
	users   map[int64]models.User
	byEmail map[string]int64
	tokens  map[string]models.RefreshToken
	nextID  int64
	audits  []models.AuditLog
	revoked []string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:   make(map[int64]models.User),
		byEmail: make(map[string]int64),
		tokens:  make(map[string]models.RefreshToken),
		nextID:  10,
	}
}

func (m *mockUserRepo) addUser(u models.User) {
	m.users[u.ID] = u
	m.byEmail[u.Email] = u.ID
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if id, ok := m.byEmail[email]; ok {
		u := m.users[id]
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.nextID++
	user.ID = m.nextID
	m.addUser(*user)
	return nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	m.addUser(*user)
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error {
	return nil
}

func (m *mockUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	m.tokens[token.Token] = *token
	return nil
}

func (m *mockUserRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := m.tokens[token]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	m.revoked = append(m.revoked, id)
	for key, t := range m.tokens {
		if t.ID == id {
			t.RevokedAt = &revokedAt
			m.tokens[key] = t
		}
	}
	return nil
}

func (m *mockUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID int64) error {
	return nil
}

func (m *mockUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.audits = append(m.audits, *log)
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "portal-berita",
	}
}

func TestRegisterDefaultsToReaderRole(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Siti Rahma",
		Email:    "siti@example.com",
		Password: "rahasia-sekali",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RolePengguna, user.Role)
	assert.NotEqual(t, "rahasia-sekali", user.PasswordHash)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser(models.User{ID: 1, Email: "siti@example.com"})
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Siti Rahma",
		Email:    "siti@example.com",
		Password: "rahasia-sekali",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "email", appErr.Field)
}

func TestLoginIssuesValidTokens(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia-sekali"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := newMockUserRepo()
	repo.addUser(models.User{ID: 1, Name: "Siti", Email: "siti@example.com", PasswordHash: string(hash), Role: models.RoleJurnalis})
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "siti@example.com", Password: "rahasia-sekali"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleJurnalis, resp.User.Role)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, models.RoleJurnalis, claims.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia-sekali"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := newMockUserRepo()
	repo.addUser(models.User{ID: 1, Email: "siti@example.com", PasswordHash: string(hash)})
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "siti@example.com", Password: "salah"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser(models.User{ID: 1, Email: "siti@example.com", Role: models.RolePengguna})
	repo.tokens["old-token"] = models.RefreshToken{
		ID:        "token-1",
		UserID:    1,
		Token:     "old-token",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	resp, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "old-token"})
	require.NoError(t, err)
	assert.NotEqual(t, "old-token", resp.RefreshToken)
	assert.Contains(t, repo.revoked, "token-1")
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	repo := newMockUserRepo()
	repo.addUser(models.User{ID: 1, Email: "siti@example.com"})
	repo.tokens["stale"] = models.RefreshToken{
		ID:        "token-2",
		UserID:    1,
		Token:     "stale",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "stale"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
