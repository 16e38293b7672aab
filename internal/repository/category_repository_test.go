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

func TestCategoryFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "nama", "slug", "deskripsi", "created_at", "updated_at"}).
		AddRow(7, "Ekonomi", "ekonomi", nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, nama, slug, deskripsi, created_at, updated_at FROM kategori WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	category, err := repo.FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "ekonomi", category.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategorySlugExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM kategori WHERE slug = $1")).
		WithArgs("ekonomi").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.SlugExists(context.Background(), "ekonomi", 0)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO kategori").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(3, now, now))

	category := &models.Category{Name: "Politik", Slug: "politik"}
	require.NoError(t, repo.Create(context.Background(), category))
	assert.Equal(t, int64(3), category.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
