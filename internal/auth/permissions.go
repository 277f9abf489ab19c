package auth

import (
	"sort"

	"sg44_backend/internal/models"
)

// Actor is the authenticated caller. It is passed explicitly into every
// service call instead of being read from ambient state.
type Actor struct {
	UserID string
	Role   models.UserRole
}

// Anonymous is the zero actor used for public endpoints.
var Anonymous = Actor{}

func (a Actor) IsAuthenticated() bool {
	return a.UserID != ""
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.UserRoleAdmin
}

func (a Actor) Owns(ownerID string) bool {
	return a.UserID != "" && a.UserID == ownerID
}

// HasAnyRole reports whether the actor holds one of roles.
func (a Actor) HasAnyRole(roles ...models.UserRole) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// WriterPredicate decides whether actor may write a field of a document owned by ownerID.
type WriterPredicate func(actor Actor, ownerID string) bool

var (
	OwnerOnly WriterPredicate = func(a Actor, ownerID string) bool { return a.Owns(ownerID) }
	AdminOnly WriterPredicate = func(a Actor, _ string) bool { return a.IsAdmin() }
	Nobody    WriterPredicate = func(Actor, string) bool { return false }

	AdminOrReviewer WriterPredicate = func(a Actor, _ string) bool {
		return a.HasAnyRole(models.UserRoleAdmin, models.UserRoleReviewer)
	}
	OwnerOrAdmin WriterPredicate = func(a Actor, ownerID string) bool {
		return a.Owns(ownerID) || a.IsAdmin()
	}
)

// FieldPolicy maps a JSON field name to the predicate allowed to write it.
// Fields absent from the table are not writable by anyone.
type FieldPolicy map[string]WriterPredicate

// Denied returns the fields in fields that actor may not write, sorted.
func (p FieldPolicy) Denied(actor Actor, ownerID string, fields []string) []string {
	var denied []string
	for _, f := range fields {
		pred, ok := p[f]
		if !ok || !pred(actor, ownerID) {
			denied = append(denied, f)
		}
	}
	sort.Strings(denied)
	return denied
}

func (p FieldPolicy) CanWrite(actor Actor, ownerID, field string) bool {
	return len(p.Denied(actor, ownerID, []string{field})) == 0
}
