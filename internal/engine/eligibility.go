package engine

import (
	"github.com/airi-scans/steward/internal/domain/directory"
	"github.com/airi-scans/steward/internal/domain/project"
	"github.com/airi-scans/steward/internal/domain/roster"
)

// Eligible reports whether a member may take the given slot on a
// project in the given status. Members on hiatus are never eligible;
// unknown statuses make nobody eligible. Manual self-assignment and the
// auto-assign sweep must both go through this predicate so the rule
// table can never diverge between the two paths.
func Eligible(dir *directory.Lookup, m *roster.Member, status string, languages []string, role project.Role) bool {
	if hiatus := dir.HiatusRoleID(); hiatus != "" && m.HasRole(hiatus) {
		return false
	}

	required := dir.RequiredRoleIDs(status, languages, role)
	if len(required) == 0 {
		return false
	}
	return m.HasAnyRole(required)
}
