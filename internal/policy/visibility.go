package policy

import "github.com/noah-isme/portal-berita-api/internal/models"

const (
	defaultLimit = 10
	maxLimit     = 100
)

// NarrowListFilter applies the list-view predicate to a caller-supplied
// filter. Anonymous callers and readers are clamped to published
// articles regardless of what they asked for; editorial roles may
// filter by any status or none (meaning all). Pagination bounds are
// clamped, never rejected.
func NarrowListFilter(actor *Actor, filter models.ArticleFilter) models.ArticleFilter {
	if !IsPrivileged(actor) {
		published := models.StatusPublished
		filter.Status = &published
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	return filter
}

// NarrowOwnListFilter prepares the "my articles" filter: results are
// pinned to the actor regardless of any requested author, pagination is
// clamped, and any status filter is honoured since the caller only sees
// their own rows.
func NarrowOwnListFilter(actor *Actor, filter models.ArticleFilter) models.ArticleFilter {
	filter.AuthorID = &actor.ID
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	return filter
}
