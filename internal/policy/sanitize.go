package policy

import "github.com/noah-isme/portal-berita-api/internal/models"

// SanitizeArticlePatch drops fields the actor may not write from an
// update patch: the featured/breaking flags for non-editorial roles,
// and status values outside the role's allowance. Dropping instead of
// rejecting mirrors the portal's long-standing update contract; clients
// rely on the rest of the patch still applying. This function is the
// single point where that drop-vs-reject decision lives.
func SanitizeArticlePatch(actor *Actor, patch models.ArticlePatch) models.ArticlePatch {
	if !CanSetFlags(actor) {
		patch.IsFeatured = nil
		patch.IsBreakingNews = nil
	}
	if patch.Status != nil && (actor == nil || !AllowedStatusChange(actor.Role, *patch.Status)) {
		patch.Status = nil
	}
	// PublishedAt is never client-writable; only the workflow stamps it.
	patch.PublishedAt = nil
	return patch
}
