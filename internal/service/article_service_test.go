package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portal-berita-api/internal/models"
	"github.com/noah-isme/portal-berita-api/internal/policy"
	appErrors "github.com/noah-isme/portal-berita-api/pkg/errors"
)

type mockArticleRepo struct {
	articles map[int64]models.Article
	slugs    map[string]int64
	nextID   int64
	patches  map[int64]models.ArticlePatch
	listed   *models.ArticleFilter
	stats    *models.ArticleStats
}

func newMockArticleRepo() *mockArticleRepo {
	return &mockArticleRepo{
		articles: make(map[int64]models.Article),
		slugs:    make(map[string]int64),
		patches:  make(map[int64]models.ArticlePatch),
		nextID:   100,
	}
}

func (m *mockArticleRepo) put(a models.Article) {
	m.articles[a.ID] = a
	m.slugs[a.Slug] = a.ID
}

func (m *mockArticleRepo) List(ctx context.Context, filter models.ArticleFilter) ([]models.Article, int, error) {
	m.listed = &filter
	return nil, 0, nil
}

func (m *mockArticleRepo) FindByID(ctx context.Context, id int64) (*models.Article, error) {
	if a, ok := m.articles[id]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockArticleRepo) FindBySlug(ctx context.Context, slug string) (*models.Article, error) {
	if id, ok := m.slugs[slug]; ok {
		a := m.articles[id]
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockArticleRepo) Create(ctx context.Context, article *models.Article) error {
	m.nextID++
	article.ID = m.nextID
	article.CreatedAt = time.Now().UTC()
	article.UpdatedAt = article.CreatedAt
	m.put(*article)
	return nil
}

func (m *mockArticleRepo) Update(ctx context.Context, id int64, patch models.ArticlePatch) error {
	m.patches[id] = patch
	a := m.articles[id]
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.PublishedAt != nil && a.PublishedAt == nil {
		a.PublishedAt = patch.PublishedAt
	}
	if patch.Slug != nil {
		delete(m.slugs, a.Slug)
		a.Slug = *patch.Slug
	}
	m.put(a)
	return nil
}

func (m *mockArticleRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.articles[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.articles, id)
	return nil
}

func (m *mockArticleRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	id, ok := m.slugs[slug]
	return ok && id != excludeID, nil
}

func (m *mockArticleRepo) Stats(ctx context.Context, authorID *int64, now time.Time) (*models.ArticleStats, error) {
	if m.stats != nil {
		return m.stats, nil
	}
	return &models.ArticleStats{}, nil
}

type mockCategoryReader struct {
	categories map[int64]models.Category
}

func (m *mockCategoryReader) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	if c, ok := m.categories[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

type mockChannelReader struct {
	channels map[int64]models.Channel
}

func (m *mockChannelReader) FindByID(ctx context.Context, id int64) (*models.Channel, error) {
	if c, ok := m.channels[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

type mockViewRecorder struct {
	recorded []int64
}

func (m *mockViewRecorder) Record(articleID int64) {
	m.recorded = append(m.recorded, articleID)
}

func newArticleServiceForTest(repo *mockArticleRepo, views *mockViewRecorder) *ArticleService {
	categories := &mockCategoryReader{categories: map[int64]models.Category{
		1: {ID: 1, Name: "Politik", Slug: "politik"},
	}}
	channels := &mockChannelReader{channels: map[int64]models.Channel{
		42: {ID: 42, Name: "Dinas Kominfo", Slug: "dinas-kominfo", OwnerID: 9},
	}}
	if views == nil {
		views = &mockViewRecorder{}
	}
	return NewArticleService(repo, categories, channels, views, nil, nil, nil)
}

func baseCreateRequest() CreateArticleRequest {
	return CreateArticleRequest{
		Title:      "Anggaran daerah 2026 disahkan",
		Slug:       "anggaran-daerah-2026",
		Content:    "DPRD mengesahkan anggaran daerah untuk tahun 2026.",
		CategoryID: 1,
	}
}

func TestCreateReaderForbidden(t *testing.T) {
	repo := newMockArticleRepo()
	svc := newArticleServiceForTest(repo, nil)
	actor := &policy.Actor{ID: 5, Role: models.RolePengguna}

	req := baseCreateRequest()
	req.Status = "published"
	_, err := svc.Create(context.Background(), actor, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.articles)
}

func TestCreateInstansiPublishGoesToReview(t *testing.T) {
	repo := newMockArticleRepo()
	svc := newArticleServiceForTest(repo, nil)
	actor := &policy.Actor{ID: 9, Role: models.RoleInstansi}

	req := baseCreateRequest()
	req.Status = "published"
	article, err := svc.Create(context.Background(), actor, req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReview, article.Status)
	assert.Nil(t, article.PublishedAt)
}

func TestCreateJurnalisPublishStampsTimestamp(t *testing.T) {
	repo := newMockArticleRepo()
	svc := newArticleServiceForTest(repo, nil)
	actor := &policy.Actor{ID: 3, Role: models.RoleJurnalis}

	req := baseCreateRequest()
	req.Status = "published"
	article, err := svc.Create(context.Background(), actor, req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, article.Status)
	require.NotNil(t, article.PublishedAt)
}

func TestCreateDropsFlagsForInstansi(t *testing.T) {
	repo := newMockArticleRepo()
	svc := newArticleServiceForTest(repo, nil)
	actor := &policy.Actor{ID: 9, Role: models.RoleInstansi}

	req := baseCreateRequest()
	req.IsFeatured = true
	req.IsBreakingNews = true
	article, err := svc.Create(context.Background(), actor, req)
	require.NoError(t, err)
	assert.False(t, article.IsFeatured)
	assert.False(t, article.IsBreakingNews)
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	repo := newMockArticleRepo()
	repo.put(models.Article{ID: 1, Slug: "anggaran-daerah-2026", Status: models.StatusPublished, AuthorID: 2, CategoryID: 1})
	svc := newArticleServiceForTest(repo, nil)
	actor := &policy.Actor{ID: 3, Role: models.RoleJurnalis}

	_, err := svc.Create(context.Background(), actor, baseCreateRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "slug", appErr.Field)
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	repo := newMockArticleRepo()
	svc := newArticleServiceForTest(repo, nil)
	actor := &policy.Actor{ID: 3, Role: models.RoleJurnalis}

	req := baseCreateRequest()
	req.CategoryID = 999
	_, err := svc.Create(context.Background(), actor, req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "kategori_id", appErr.Field)
}

func TestCreateRejectsForeignChannel(t *testing.T) {
	repo := newMockArticleRepo()
	svc := newArticleServiceForTest(repo, nil)
	actor := &policy.Actor{ID: 7, Role: models.RoleInstansi}

	channelID := int64(42)
	req := baseCreateRequest()
	req.ChannelID = &channelID
	_, err := svc.Create(context.Background(), actor, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestCreateAllowsOwnChannel(t *testing.T) {
	repo := newMockArticleRepo()
	svc := newArticleServiceForTest(repo, nil)
	actor := &policy.Actor{ID: 9, Role: models.RoleInstansi}

	channelID := int64(42)
	req := baseCreateRequest()
	req.ChannelID = &channelID
	article, err := svc.Create(context.Background(), actor, req)
	require.NoError(t, err)
	require.NotNil(t, article.ChannelID)
	assert.Equal(t, channelID, *article.ChannelID)
}

func TestGetUnpublishedHiddenFromOthers(t *testing.T) {
	repo := newMockArticleRepo()
	repo.put(models.Article{ID: 1, Slug: "rahasia-draf", Status: models.StatusDraft, AuthorID: 2, CategoryID: 1})
	svc := newArticleServiceForTest(repo, nil)

	_, err := svc.GetByID(context.Background(), &policy.Actor{ID: 7, Role: models.RoleInstansi}, 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.GetByID(context.Background(), nil, 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	article, err := svc.GetByID(context.Background(), &policy.Actor{ID: 2, Role: models.RolePengguna}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), article.ID)
}

func TestGetPublishedRecordsView(t *testing.T) {
	repo := newMockArticleRepo()
	repo.put(models.Article{ID: 1, Slug: "berita-terbit", Status: models.StatusPublished, AuthorID: 2, CategoryID: 1, ViewsCount: 10})
	views := &mockViewRecorder{}
	svc := newArticleServiceForTest(repo, views)

	article, err := svc.GetBySlug(context.Background(), nil, "berita-terbit")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, views.recorded)
	assert.Equal(t, int64(11), article.ViewsCount)
}

func TestGetDraftDoesNotRecordView(t *testing.T) {
	repo := newMockArticleRepo()
	repo.put(models.Article{ID: 1, Slug: "draf", Status: models.StatusDraft, AuthorID: 2, CategoryID: 1})
	views := &mockViewRecorder{}
	svc := newArticleServiceForTest(repo, views)

	_, err := svc.GetByID(context.Background(), &policy.Actor{ID: 2, Role: models.RolePengguna}, 1)
	require.NoError(t, err)
	assert.Empty(t, views.recorded)
}

func TestListNonPrivilegedForcedToPublished(t *testing.T) {
	repo := newMockArticleRepo()
	svc := newArticleServiceForTest(repo, nil)

	draft := models.StatusDraft
	_, _, err := svc.List(context.Background(), nil, models.ArticleFilter{Status: &draft})
	require.NoError(t, err)
	require.NotNil(t, repo.listed.Status)
	assert.Equal(t, models.StatusPublished, *repo.listed.Status)
}

func TestUpdateForeignArticleForbidden(t *testing.T) {
	repo := newMockArticleRepo()
	repo.put(models.Article{ID: 1, Slug: "milik-orang", Status: models.StatusDraft, AuthorID: 2, CategoryID: 1})
	svc := newArticleServiceForTest(repo, nil)

	title := "judul baru"
	_, err := svc.Update(context.Background(), &policy.Actor{ID: 5, Role: models.RolePengguna}, 1, UpdateArticleRequest{Title: &title})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUpdateReaderStatusEscalationDropped(t *testing.T) {
	repo := newMockArticleRepo()
	repo.put(models.Article{ID: 1, Slug: "draf-pembaca", Status: models.StatusDraft, AuthorID: 5, CategoryID: 1})
	svc := newArticleServiceForTest(repo, nil)

	status := "published"
	title := "judul diperbarui"
	article, err := svc.Update(context.Background(), &policy.Actor{ID: 5, Role: models.RolePengguna}, 1, UpdateArticleRequest{Title: &title, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, article.Status)
	assert.Nil(t, repo.patches[1].Status)
	assert.NotNil(t, repo.patches[1].Title)
}

func TestUpdatePublishStampsOnce(t *testing.T) {
	repo := newMockArticleRepo()
	repo.put(models.Article{ID: 1, Slug: "siap-terbit", Status: models.StatusReview, AuthorID: 3, CategoryID: 1})
	svc := newArticleServiceForTest(repo, nil)

	status := "published"
	article, err := svc.Update(context.Background(), &policy.Actor{ID: 3, Role: models.RoleJurnalis}, 1, UpdateArticleRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, article.Status)
	require.NotNil(t, repo.patches[1].PublishedAt)
}

func TestUpdateRepublishDoesNotRestamp(t *testing.T) {
	published := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	repo := newMockArticleRepo()
	repo.put(models.Article{ID: 1, Slug: "sudah-terbit", Status: models.StatusPublished, PublishedAt: &published, AuthorID: 3, CategoryID: 1})
	svc := newArticleServiceForTest(repo, nil)

	status := "published"
	_, err := svc.Update(context.Background(), &policy.Actor{ID: 1, Role: models.RoleAdmin}, 1, UpdateArticleRequest{Status: &status})
	require.NoError(t, err)
	assert.Nil(t, repo.patches[1].PublishedAt)
}

func TestChangeStatusRequiresEditorialRole(t *testing.T) {
	repo := newMockArticleRepo()
	repo.put(models.Article{ID: 1, Slug: "dalam-review", Status: models.StatusReview, AuthorID: 9, CategoryID: 1})
	svc := newArticleServiceForTest(repo, nil)

	_, err := svc.ChangeStatus(context.Background(), &policy.Actor{ID: 9, Role: models.RoleInstansi}, 1, ChangeStatusRequest{Status: "published"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestChangeStatusIgnoresOwnership(t *testing.T) {
	repo := newMockArticleRepo()
	repo.put(models.Article{ID: 1, Slug: "dalam-review", Status: models.StatusReview, AuthorID: 9, CategoryID: 1})
	svc := newArticleServiceForTest(repo, nil)

	article, err := svc.ChangeStatus(context.Background(), &policy.Actor{ID: 3, Role: models.RoleJurnalis}, 1, ChangeStatusRequest{Status: "published"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, article.Status)
	require.NotNil(t, repo.patches[1].PublishedAt)
}

func TestArchiveKeepsPublishedTimestamp(t *testing.T) {
	published := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	repo := newMockArticleRepo()
	repo.put(models.Article{ID: 1, Slug: "lama", Status: models.StatusPublished, PublishedAt: &published, AuthorID: 3, CategoryID: 1})
	svc := newArticleServiceForTest(repo, nil)

	article, err := svc.ChangeStatus(context.Background(), &policy.Actor{ID: 1, Role: models.RoleAdmin}, 1, ChangeStatusRequest{Status: "archived"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, article.Status)
	require.NotNil(t, article.PublishedAt)
	assert.True(t, article.PublishedAt.Equal(published))
}

func TestDeleteOwnerOnly(t *testing.T) {
	repo := newMockArticleRepo()
	repo.put(models.Article{ID: 1, Slug: "punya-saya", Status: models.StatusDraft, AuthorID: 5, CategoryID: 1})
	svc := newArticleServiceForTest(repo, nil)

	err := svc.Delete(context.Background(), &policy.Actor{ID: 6, Role: models.RolePengguna}, 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), &policy.Actor{ID: 5, Role: models.RolePengguna}, 1))
	_, ok := repo.articles[1]
	assert.False(t, ok)
}

func TestStatsScopedToAuthorForJurnalis(t *testing.T) {
	repo := newMockArticleRepo()
	repo.stats = &models.ArticleStats{TotalArticles: 4}
	svc := newArticleServiceForTest(repo, nil)

	stats, err := svc.Stats(context.Background(), &policy.Actor{ID: 3, Role: models.RoleJurnalis})
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalArticles)

	_, err = svc.Stats(context.Background(), &policy.Actor{ID: 5, Role: models.RolePengguna})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
