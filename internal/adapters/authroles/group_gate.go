// Package authroles decides whether an authenticated identity may use the portal at all.
// Per-specification permissions come from the funding platform.
package authroles

import (
	"slices"

	domainauth "github.com/calcfunding/portal/internal/domain/auth"
)

// GroupGate admits identities that belong to at least one allowed group.
// An empty allow list admits everyone.
type GroupGate struct {
	Allowed []string
}

// Allows reports whether id may sign in.
func (g GroupGate) Allows(id domainauth.Identity) bool {
	if len(g.Allowed) == 0 {
		return true
	}
	for _, grp := range id.Groups {
		if slices.Contains(g.Allowed, grp) {
			return true
		}
	}
	return false
}
