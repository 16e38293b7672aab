package policy

import "github.com/noah-isme/portal-berita-api/internal/models"

// Actor is the authenticated caller for a single request. A nil *Actor
// means the request is anonymous. Actors are passed explicitly to every
// decision function; the package keeps no request state.
type Actor struct {
	ID   int64
	Role models.UserRole
}

// Capability names an operation an actor may be granted.
type Capability string

const (
	// CapEditorial grants full workflow control: any status value, the
	// dedicated status endpoint, featured/breaking flags, and override of
	// ownership checks on articles.
	CapEditorial Capability = "editorial"
	// CapPublishContent grants article creation.
	CapPublishContent Capability = "publish_content"
	// CapModerateComments grants comment approval and report handling.
	CapModerateComments Capability = "moderate_comments"
	// CapManageUsers grants user administration.
	CapManageUsers Capability = "manage_users"
)

// capabilityGrants is the single place role grants are declared.
// Adding a role or widening a grant is a one-line change here.
var capabilityGrants = map[Capability]map[models.UserRole]struct{}{
	CapEditorial: {
		models.RoleAdmin:    {},
		models.RoleJurnalis: {},
	},
	CapPublishContent: {
		models.RoleAdmin:    {},
		models.RoleJurnalis: {},
		models.RoleInstansi: {},
	},
	CapModerateComments: {
		models.RoleAdmin: {},
	},
	CapManageUsers: {
		models.RoleAdmin: {},
	},
}

// HasCapability reports whether the actor's role carries the capability.
// Anonymous actors carry none.
func HasCapability(actor *Actor, cap Capability) bool {
	if actor == nil {
		return false
	}
	grants, ok := capabilityGrants[cap]
	if !ok {
		return false
	}
	_, ok = grants[actor.Role]
	return ok
}

// IsPrivileged reports whether the actor holds editorial override powers
// (admin or jurnalis).
func IsPrivileged(actor *Actor) bool {
	return HasCapability(actor, CapEditorial)
}

// Owns reports whether the actor is the owner identified by ownerID.
func Owns(actor *Actor, ownerID int64) bool {
	return actor != nil && actor.ID == ownerID
}

// OwnsOrAdmin is the recurring ownership predicate: the resource owner
// or an admin. Used for channels, bookmarks, and comment edits.
func OwnsOrAdmin(actor *Actor, ownerID int64) bool {
	if actor == nil {
		return false
	}
	return actor.Role == models.RoleAdmin || actor.ID == ownerID
}
