package policy

import (
	"time"

	"github.com/noah-isme/portal-berita-api/internal/models"
)

// StatusPatch is the outcome of a workflow transition: the status to
// persist and, when the article first reaches published, the timestamp
// to stamp. A nil PublishedAt leaves the stored value untouched.
type StatusPatch struct {
	Status      models.ArticleStatus
	PublishedAt *time.Time
}

// DeriveInitialStatus resolves the stored status for a newly created
// article. Readers always start in draft; institution content requested
// as published is downgraded to review so it passes editorial review
// first. An empty request defaults to draft.
func DeriveInitialStatus(role models.UserRole, requested models.ArticleStatus) models.ArticleStatus {
	if requested == "" {
		requested = models.StatusDraft
	}
	switch role {
	case models.RolePengguna:
		return models.StatusDraft
	case models.RoleInstansi:
		if requested == models.StatusPublished {
			return models.StatusReview
		}
	}
	return requested
}

// AllowedStatusChange reports whether the actor's role may set the
// requested status on a regular update. Editorial roles may set any
// status; instansi only review; pengguna only draft. Denied values are
// dropped by the caller, not rejected.
func AllowedStatusChange(role models.UserRole, requested models.ArticleStatus) bool {
	switch role {
	case models.RoleAdmin, models.RoleJurnalis:
		return true
	case models.RoleInstansi:
		return requested == models.StatusReview
	case models.RolePengguna:
		return requested == models.StatusDraft
	default:
		return false
	}
}

// ApplyStatusTransition narrows a requested status change by role and
// computes the publication timestamp. The stamping condition is checked
// against the article's prior persisted status, never the request, so a
// redundant "set published" call does not re-stamp. On the dedicated
// status endpoint the role gate is CanChangeStatus, enforced by the
// caller, and any status value is applied as-is.
func ApplyStatusTransition(prior models.ArticleStatus, requested models.ArticleStatus, role models.UserRole, dedicated bool, now time.Time) (StatusPatch, bool) {
	if !dedicated && !AllowedStatusChange(role, requested) {
		return StatusPatch{}, false
	}
	patch := StatusPatch{Status: requested}
	if requested == models.StatusPublished && prior != models.StatusPublished {
		ts := now.UTC()
		patch.PublishedAt = &ts
	}
	return patch, true
}
