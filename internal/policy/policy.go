// Package policy implements the publication workflow and the
// authorization rules for the news portal. Every function is a pure
// decision over (actor, resource snapshot); persistence and transport
// concerns stay in the service and repository layers.
package policy

import "github.com/noah-isme/portal-berita-api/internal/models"

// ViewDecision is the outcome of a single-article visibility check.
type ViewDecision int

const (
	// ViewAllowed means the article may be returned to the caller.
	ViewAllowed ViewDecision = iota
	// ViewNotFound means the article must be reported as absent. Deliberately
	// not a "forbidden": unauthorized callers cannot learn that an
	// unpublished article exists.
	ViewNotFound
)

// CanView decides whether the actor may read the article. Published
// articles are public. Unpublished ones are visible only to editorial
// roles and the author.
func CanView(actor *Actor, article *models.Article) ViewDecision {
	if article.Status == models.StatusPublished {
		return ViewAllowed
	}
	if IsPrivileged(actor) || Owns(actor, article.AuthorID) {
		return ViewAllowed
	}
	return ViewNotFound
}

// CanCreate reports whether the actor may create articles at all.
// Channel attribution is checked separately with CanUseChannel.
func CanCreate(actor *Actor) bool {
	return HasCapability(actor, CapPublishContent)
}

// CanUseChannel reports whether the actor may attribute an article to
// the channel owned by ownerID. Admins may use any channel; everyone
// else only their own.
func CanUseChannel(actor *Actor, ownerID int64) bool {
	return OwnsOrAdmin(actor, ownerID)
}

// CanMutate reports whether the actor may update or delete the article.
// Editorial roles override ownership.
func CanMutate(actor *Actor, article *models.Article) bool {
	if IsPrivileged(actor) {
		return true
	}
	return Owns(actor, article.AuthorID)
}

// CanChangeStatus gates the dedicated status endpoint. Ownership is
// irrelevant there; the endpoint exists for the editorial workflow.
func CanChangeStatus(actor *Actor) bool {
	return HasCapability(actor, CapEditorial)
}

// CanSetFlags reports whether the actor may set the featured and
// breaking-news flags. Callers drop the fields silently when this is
// false; see SanitizeArticlePatch.
func CanSetFlags(actor *Actor) bool {
	return HasCapability(actor, CapEditorial)
}
