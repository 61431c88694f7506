package directory

import (
	"fmt"

	"github.com/airi-scans/steward/internal/domain/project"
)

// Lookup is the in-memory view of the status and group link tables.
// Both tables change rarely; the engine treats a Lookup as immutable
// and a restart picks up edits.
type Lookup struct {
	statuses map[string]StatusLink
	groups   map[string]string
}

// NewLookup indexes the link tables for status and group resolution.
func NewLookup(statuses []StatusLink, groups []GroupLink) *Lookup {
	l := &Lookup{
		statuses: make(map[string]StatusLink, len(statuses)),
		groups:   make(map[string]string, len(groups)),
	}
	for _, s := range statuses {
		l.statuses[s.Status] = s
	}
	for _, g := range groups {
		l.groups[g.GroupName] = g.RoleID
	}
	return l
}

// StatusLink returns the link for a status, if one is configured.
func (l *Lookup) StatusLink(status string) (StatusLink, bool) {
	link, ok := l.statuses[status]
	return link, ok
}

// ChannelFor returns the display channel configured for a status.
func (l *Lookup) ChannelFor(status string) (string, bool) {
	link, ok := l.statuses[status]
	if !ok || link.ChannelID == "" {
		return "", false
	}
	return link.ChannelID, true
}

// RoleID resolves a tracker group name to an authorization role id.
func (l *Lookup) RoleID(groupName string) (string, bool) {
	id, ok := l.groups[groupName]
	return id, ok
}

// HiatusRoleID returns the authorization role id of the hiatus group,
// or "" when none is configured.
func (l *Lookup) HiatusRoleID() string {
	return l.groups[HiatusGroup]
}

// RequiredRoleIDs returns the authorization role ids that satisfy the
// group requirement for taking the given slot in the given status.
// Per-language templates expand once per project language. An empty
// result means the status is unknown, the slot is not fillable in it,
// or no listed group resolves to a role id.
func (l *Lookup) RequiredRoleIDs(status string, languages []string, role project.Role) []string {
	link, ok := l.statuses[status]
	if !ok {
		return nil
	}
	spec, ok := link.Roles[role]
	if !ok {
		return nil
	}

	var names []string
	if spec.PerLanguage {
		for _, lang := range languages {
			names = append(names, fmt.Sprintf(spec.GroupName, lang))
		}
	} else {
		names = []string{spec.GroupName}
	}

	var ids []string
	for _, name := range names {
		if id, ok := l.groups[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
