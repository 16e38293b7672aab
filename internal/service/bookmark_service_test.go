package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portal-berita-api/internal/models"
	"github.com/noah-isme/portal-berita-api/internal/policy"
	appErrors "github.com/noah-isme/portal-berita-api/pkg/errors"
)

type mockBookmarkRepo struct {
	bookmarks map[int64]models.Bookmark
	nextID    int64
}

func newMockBookmarkRepo() *mockBookmarkRepo {
	return &mockBookmarkRepo{bookmarks: make(map[int64]models.Bookmark), nextID: 20}
}

func (m *mockBookmarkRepo) ListByUser(ctx context.Context, filter models.BookmarkFilter) ([]models.Bookmark, int, error) {
	var out []models.Bookmark
	for _, b := range m.bookmarks {
		if b.UserID == filter.UserID {
			out = append(out, b)
		}
	}
	return out, len(out), nil
}

func (m *mockBookmarkRepo) FindByID(ctx context.Context, id int64) (*models.Bookmark, error) {
	if b, ok := m.bookmarks[id]; ok {
		return &b, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockBookmarkRepo) Exists(ctx context.Context, userID, articleID int64) (bool, error) {
	for _, b := range m.bookmarks {
		if b.UserID == userID && b.ArticleID == articleID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBookmarkRepo) Create(ctx context.Context, bookmark *models.Bookmark) error {
	m.nextID++
	bookmark.ID = m.nextID
	m.bookmarks[bookmark.ID] = *bookmark
	return nil
}

func (m *mockBookmarkRepo) Delete(ctx context.Context, id int64) error {
	delete(m.bookmarks, id)
	return nil
}

func (m *mockBookmarkRepo) DeleteByUserAndArticle(ctx context.Context, userID, articleID int64) (bool, error) {
	for id, b := range m.bookmarks {
		if b.UserID == userID && b.ArticleID == articleID {
			delete(m.bookmarks, id)
			return true, nil
		}
	}
	return false, nil
}

func newBookmarkServiceForTest(repo *mockBookmarkRepo) *BookmarkService {
	articles := newMockArticleRepo()
	articles.put(models.Article{ID: 1, Slug: "berita-terbit", Status: models.StatusPublished, AuthorID: 2, CategoryID: 1})
	articles.put(models.Article{ID: 2, Slug: "masih-draf", Status: models.StatusDraft, AuthorID: 2, CategoryID: 1})
	return NewBookmarkService(repo, articles, nil, nil)
}

func TestBookmarkPublishedArticle(t *testing.T) {
	repo := newMockBookmarkRepo()
	svc := newBookmarkServiceForTest(repo)
	actor := &policy.Actor{ID: 5, Role: models.RolePengguna}

	bookmark, err := svc.Create(context.Background(), actor, CreateBookmarkRequest{ArticleID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(5), bookmark.UserID)
}

func TestBookmarkDraftLooksLikeMiss(t *testing.T) {
	repo := newMockBookmarkRepo()
	svc := newBookmarkServiceForTest(repo)
	actor := &policy.Actor{ID: 5, Role: models.RolePengguna}

	_, err := svc.Create(context.Background(), actor, CreateBookmarkRequest{ArticleID: 2})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBookmarkDuplicateConflicts(t *testing.T) {
	repo := newMockBookmarkRepo()
	svc := newBookmarkServiceForTest(repo)
	actor := &policy.Actor{ID: 5, Role: models.RolePengguna}

	_, err := svc.Create(context.Background(), actor, CreateBookmarkRequest{ArticleID: 1})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), actor, CreateBookmarkRequest{ArticleID: 1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestDeleteBookmarkOwnerOnly(t *testing.T) {
	repo := newMockBookmarkRepo()
	repo.bookmarks[21] = models.Bookmark{ID: 21, UserID: 5, ArticleID: 1}
	svc := newBookmarkServiceForTest(repo)

	err := svc.Delete(context.Background(), &policy.Actor{ID: 1, Role: models.RoleAdmin}, 21)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), &policy.Actor{ID: 5, Role: models.RolePengguna}, 21))
}

func TestDeleteBookmarkByArticle(t *testing.T) {
	repo := newMockBookmarkRepo()
	repo.bookmarks[21] = models.Bookmark{ID: 21, UserID: 5, ArticleID: 1}
	svc := newBookmarkServiceForTest(repo)
	actor := &policy.Actor{ID: 5, Role: models.RolePengguna}

	require.NoError(t, svc.DeleteByArticle(context.Background(), actor, 1))
	err := svc.DeleteByArticle(context.Background(), actor, 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
