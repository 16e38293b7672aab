package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/portal-berita-api/internal/models"
)

func draftArticle(authorID int64) *models.Article {
	return &models.Article{ID: 5, Status: models.StatusDraft, AuthorID: authorID}
}

func TestCanViewPublishedIsPublic(t *testing.T) {
	article := &models.Article{Status: models.StatusPublished, AuthorID: 3}

	assert.Equal(t, ViewAllowed, CanView(nil, article))
	assert.Equal(t, ViewAllowed, CanView(&Actor{ID: 99, Role: models.RolePengguna}, article))
}

func TestCanViewUnpublishedReportsNotFound(t *testing.T) {
	article := draftArticle(3)

	// Not forbidden: unauthorized callers cannot learn the draft exists.
	assert.Equal(t, ViewNotFound, CanView(nil, article))
	assert.Equal(t, ViewNotFound, CanView(&Actor{ID: 7, Role: models.RolePengguna}, article))
	assert.Equal(t, ViewNotFound, CanView(&Actor{ID: 7, Role: models.RoleInstansi}, article))
}

func TestCanViewUnpublishedAuthorAndEditors(t *testing.T) {
	article := draftArticle(3)

	assert.Equal(t, ViewAllowed, CanView(&Actor{ID: 3, Role: models.RolePengguna}, article))
	assert.Equal(t, ViewAllowed, CanView(&Actor{ID: 1, Role: models.RoleAdmin}, article))
	assert.Equal(t, ViewAllowed, CanView(&Actor{ID: 2, Role: models.RoleJurnalis}, article))
}

func TestCanCreate(t *testing.T) {
	assert.True(t, CanCreate(&Actor{ID: 1, Role: models.RoleAdmin}))
	assert.True(t, CanCreate(&Actor{ID: 2, Role: models.RoleJurnalis}))
	assert.True(t, CanCreate(&Actor{ID: 3, Role: models.RoleInstansi}))
	assert.False(t, CanCreate(&Actor{ID: 4, Role: models.RolePengguna}))
	assert.False(t, CanCreate(nil))
}

func TestCanUseChannelOwnerOrAdmin(t *testing.T) {
	// Channel 42 owned by user 9; instansi user 7 may not use it.
	assert.False(t, CanUseChannel(&Actor{ID: 7, Role: models.RoleInstansi}, 9))
	assert.True(t, CanUseChannel(&Actor{ID: 9, Role: models.RoleInstansi}, 9))
	assert.True(t, CanUseChannel(&Actor{ID: 1, Role: models.RoleAdmin}, 9))
	// Jurnalis has no channel override; channels belong to institutions.
	assert.False(t, CanUseChannel(&Actor{ID: 2, Role: models.RoleJurnalis}, 9))
}

func TestCanMutateOwnerOrEditorial(t *testing.T) {
	article := draftArticle(3)

	assert.True(t, CanMutate(&Actor{ID: 3, Role: models.RolePengguna}, article))
	assert.True(t, CanMutate(&Actor{ID: 1, Role: models.RoleAdmin}, article))
	assert.True(t, CanMutate(&Actor{ID: 2, Role: models.RoleJurnalis}, article))
	assert.False(t, CanMutate(&Actor{ID: 7, Role: models.RoleInstansi}, article))
	assert.False(t, CanMutate(nil, article))
}

func TestCanChangeStatusEditorialOnly(t *testing.T) {
	assert.True(t, CanChangeStatus(&Actor{ID: 1, Role: models.RoleAdmin}))
	assert.True(t, CanChangeStatus(&Actor{ID: 2, Role: models.RoleJurnalis}))
	assert.False(t, CanChangeStatus(&Actor{ID: 3, Role: models.RoleInstansi}))
	assert.False(t, CanChangeStatus(&Actor{ID: 3, Role: models.RolePengguna}))
}

func TestHasCapabilityUnknownRole(t *testing.T) {
	assert.False(t, HasCapability(&Actor{ID: 1, Role: "superuser"}, CapEditorial))
	assert.False(t, HasCapability(&Actor{ID: 1, Role: models.RoleAdmin}, Capability("unknown")))
}
