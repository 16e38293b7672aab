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

type mockCommentRepo struct {
	comments map[int64]models.Comment
	nextID   int64
	listed   *models.CommentFilter
	deleted  []int64
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{comments: make(map[int64]models.Comment), nextID: 50}
}

func (m *mockCommentRepo) List(ctx context.Context, filter models.CommentFilter) ([]models.Comment, int, error) {
	m.listed = &filter
	return nil, 0, nil
}

func (m *mockCommentRepo) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	if c, ok := m.comments[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	m.nextID++
	comment.ID = m.nextID
	m.comments[comment.ID] = *comment
	return nil
}

func (m *mockCommentRepo) Update(ctx context.Context, comment *models.Comment) error {
	m.comments[comment.ID] = *comment
	return nil
}

func (m *mockCommentRepo) Delete(ctx context.Context, id int64) error {
	delete(m.comments, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func newCommentServiceForTest(repo *mockCommentRepo) (*CommentService, *mockArticleRepo) {
	articles := newMockArticleRepo()
	articles.put(models.Article{ID: 1, Slug: "berita-terbit", Status: models.StatusPublished, AuthorID: 2, CategoryID: 1})
	articles.put(models.Article{ID: 2, Slug: "masih-draf", Status: models.StatusDraft, AuthorID: 2, CategoryID: 1})
	return NewCommentService(repo, articles, nil, nil), articles
}

func TestCreateCommentOnPublishedArticle(t *testing.T) {
	repo := newMockCommentRepo()
	svc, _ := newCommentServiceForTest(repo)
	actor := &policy.Actor{ID: 5, Role: models.RolePengguna}

	comment, err := svc.Create(context.Background(), actor, 1, CreateCommentRequest{Content: "Berita yang informatif."})
	require.NoError(t, err)
	assert.True(t, comment.IsApproved)
	assert.Equal(t, int64(5), comment.UserID)
}

func TestCreateCommentOnDraftRejected(t *testing.T) {
	repo := newMockCommentRepo()
	svc, _ := newCommentServiceForTest(repo)

	// Author of the draft gets a validation error, strangers a miss.
	_, err := svc.Create(context.Background(), &policy.Actor{ID: 2, Role: models.RolePengguna}, 2, CreateCommentRequest{Content: "komentar"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), &policy.Actor{ID: 5, Role: models.RolePengguna}, 2, CreateCommentRequest{Content: "komentar"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCreateReplyMustMatchArticle(t *testing.T) {
	repo := newMockCommentRepo()
	repo.comments[51] = models.Comment{ID: 51, ArticleID: 99, UserID: 3, Content: "induk"}
	svc, _ := newCommentServiceForTest(repo)
	actor := &policy.Actor{ID: 5, Role: models.RolePengguna}

	parentID := int64(51)
	_, err := svc.Create(context.Background(), actor, 1, CreateCommentRequest{Content: "balasan", ParentID: &parentID})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "parent_id", appErr.Field)
}

func TestListHidesUnapprovedFromReaders(t *testing.T) {
	repo := newMockCommentRepo()
	svc, _ := newCommentServiceForTest(repo)

	_, _, err := svc.ListByArticle(context.Background(), &policy.Actor{ID: 5, Role: models.RolePengguna}, 1, models.CommentFilter{})
	require.NoError(t, err)
	require.NotNil(t, repo.listed.IsApproved)
	assert.True(t, *repo.listed.IsApproved)

	_, _, err = svc.ListByArticle(context.Background(), &policy.Actor{ID: 1, Role: models.RoleAdmin}, 1, models.CommentFilter{})
	require.NoError(t, err)
	assert.Nil(t, repo.listed.IsApproved)
}

func TestUpdateModerationFlagsAdminOnly(t *testing.T) {
	repo := newMockCommentRepo()
	repo.comments[51] = models.Comment{ID: 51, ArticleID: 1, UserID: 5, Content: "komentar", IsApproved: true}
	svc, _ := newCommentServiceForTest(repo)

	unapproved := false
	comment, err := svc.Update(context.Background(), &policy.Actor{ID: 5, Role: models.RolePengguna}, 51, UpdateCommentRequest{IsApproved: &unapproved})
	require.NoError(t, err)
	assert.True(t, comment.IsApproved)

	comment, err = svc.Update(context.Background(), &policy.Actor{ID: 1, Role: models.RoleAdmin}, 51, UpdateCommentRequest{IsApproved: &unapproved})
	require.NoError(t, err)
	assert.False(t, comment.IsApproved)
}

func TestUpdateContentOwnerOnly(t *testing.T) {
	repo := newMockCommentRepo()
	repo.comments[51] = models.Comment{ID: 51, ArticleID: 1, UserID: 5, Content: "asli"}
	svc, _ := newCommentServiceForTest(repo)

	edited := "disunting"
	_, err := svc.Update(context.Background(), &policy.Actor{ID: 6, Role: models.RolePengguna}, 51, UpdateCommentRequest{Content: &edited})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestDeleteCommentOwnerOrModerator(t *testing.T) {
	repo := newMockCommentRepo()
	repo.comments[51] = models.Comment{ID: 51, ArticleID: 1, UserID: 5, Content: "komentar"}
	svc, _ := newCommentServiceForTest(repo)

	err := svc.Delete(context.Background(), &policy.Actor{ID: 6, Role: models.RolePengguna}, 51)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), &policy.Actor{ID: 1, Role: models.RoleAdmin}, 51))
	assert.Equal(t, []int64{51}, repo.deleted)
}
