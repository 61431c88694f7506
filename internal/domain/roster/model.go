package roster

import (
	"slices"
	"time"

	"github.com/airi-scans/steward/internal/domain/project"
)

// Member is one person on the chat platform who can hold assignments.
// Roles carries the chat platform's authorization role ids; it is
// refreshed out-of-band whenever membership changes.
type Member struct {
	UserID      string    `json:"user_id"`
	TrackerName string    `json:"tracker_name"`
	Roles       []string  `json:"roles,omitempty"`
	LastAssigned time.Time `json:"last_assigned"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasRole reports whether the member holds the given authorization role.
func (m *Member) HasRole(roleID string) bool {
	return slices.Contains(m.Roles, roleID)
}

// HasAnyRole reports whether the member holds at least one of the given
// authorization roles.
func (m *Member) HasAnyRole(roleIDs []string) bool {
	for _, id := range roleIDs {
		if m.HasRole(id) {
			return true
		}
	}
	return false
}

// Assignment links one project slot to its current assignee. A
// (issue key, role) pair exists at most once; the assignments table's
// primary key enforces the mutual-exclusion guarantee.
type Assignment struct {
	IssueKey           string       `json:"issue_key"`
	Role               project.Role `json:"role"`
	UserID             string       `json:"user_id"`
	AssignedAt         time.Time    `json:"assigned_at"`
	UpdateRequested    *time.Time   `json:"update_requested,omitempty"`
	UpdateRequestCount int          `json:"update_request_count"`
}

// MaxUpdateRequests caps the nag counter. A slot that has been nagged
// this many times is released by the next sweep instead of nagged again.
const MaxUpdateRequests = 3
