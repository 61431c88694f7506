package directory

import "github.com/airi-scans/steward/internal/domain/project"

// RoleSpec names the tracker group a candidate must belong to before
// taking a slot in a given status. When PerLanguage is set, GroupName is
// a template expanded once per project language ("QC %s" -> "QC EN").
type RoleSpec struct {
	GroupName   string `json:"group_name"`
	PerLanguage bool   `json:"per_language"`
}

// StatusLink maps one tracker status to its display channel and the
// group requirement for each slot that is fillable in that status.
type StatusLink struct {
	Status    string                     `json:"status"`
	ChannelID string                     `json:"channel_id"`
	Roles     map[project.Role]RoleSpec  `json:"roles"`
}

// GroupLink maps one tracker group name to the chat platform's
// authorization role id.
type GroupLink struct {
	GroupName string `json:"group_name"`
	RoleID    string `json:"role_id"`
}

// HiatusGroup is the reserved group for members who opted out of
// auto-assignment and eligibility checks entirely.
const HiatusGroup = "Hiatus"
