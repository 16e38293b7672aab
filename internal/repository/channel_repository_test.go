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

func channelRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "nama", "slug", "deskripsi", "logo_url", "user_id", "is_verified", "created_at", "updated_at", "owner_name"})
}

func TestChannelFindBySlug(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewChannelRepository(db)

	now := time.Now()
	rows := channelRows().AddRow(2, "Dinas Kominfo", "dinas-kominfo", nil, nil, 9, true, now, now, "Dinas Kominfo Kota")
	mock.ExpectQuery("SELECT (.+) FROM kanal_instansi ki LEFT JOIN users u").
		WithArgs("dinas-kominfo").
		WillReturnRows(rows)

	channel, err := repo.FindBySlug(context.Background(), "dinas-kominfo")
	require.NoError(t, err)
	assert.Equal(t, int64(9), channel.OwnerID)
	assert.True(t, channel.IsVerified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelListFiltersByOwner(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewChannelRepository(db)

	now := time.Now()
	ownerID := int64(9)
	rows := channelRows().AddRow(2, "Dinas Kominfo", "dinas-kominfo", nil, nil, 9, false, now, now, nil)
	mock.ExpectQuery("SELECT (.+) FROM kanal_instansi ki").
		WithArgs(ownerID).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM kanal_instansi ki WHERE ki.user_id = $1")).
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	channels, total, err := repo.List(context.Background(), models.ChannelFilter{OwnerID: &ownerID, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, channels, 1)
	assert.Equal(t, "dinas-kominfo", channels[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelSlugExistsExcludesSelf(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewChannelRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM kanal_instansi WHERE slug = $1 AND id <> $2")).
		WithArgs("dinas-kominfo", int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := repo.SlugExists(context.Background(), "dinas-kominfo", 2)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewChannelRepository(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO kanal_instansi").
		WithArgs("Dinas Kominfo", "dinas-kominfo", nil, nil, int64(9), false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(2, now, now))

	channel := &models.Channel{Name: "Dinas Kominfo", Slug: "dinas-kominfo", OwnerID: 9}
	require.NoError(t, repo.Create(context.Background(), channel))
	assert.Equal(t, int64(2), channel.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
