package project

import "time"

// Type distinguishes projects with one assignee slot from projects with
// two parallel quality-check slots.
type Type string

const (
	TypeSingle Type = "single"
	TypeDual   Type = "dual"
)

// Role identifies one assignment slot on a project. Single-assignee
// projects use only RolePrimary; dual-role projects use RoleLQC and
// RoleSQC independently.
type Role string

const (
	RolePrimary Role = "primary"
	RoleLQC     Role = "lqc"
	RoleSQC     Role = "sqc"
)

// AllRoles lists every slot in storage order.
var AllRoles = []Role{RolePrimary, RoleLQC, RoleSQC}

// RolesFor returns the slots that are meaningful for a project type.
func RolesFor(t Type) []Role {
	if t == TypeDual {
		return []Role{RoleLQC, RoleSQC}
	}
	return []Role{RolePrimary}
}

// RoleSet is a fixed set of per-slot flags. Both the "has assignee" and
// the "confirmed in progress" state of a project are RoleSets.
type RoleSet struct {
	Primary bool `json:"primary"`
	LQC     bool `json:"lqc"`
	SQC     bool `json:"sqc"`
}

// Has reports whether the flag for the given role is set.
func (s RoleSet) Has(r Role) bool {
	switch r {
	case RolePrimary:
		return s.Primary
	case RoleLQC:
		return s.LQC
	case RoleSQC:
		return s.SQC
	}
	return false
}

// With returns a copy of the set with the given role set.
func (s RoleSet) With(r Role) RoleSet {
	switch r {
	case RolePrimary:
		s.Primary = true
	case RoleLQC:
		s.LQC = true
	case RoleSQC:
		s.SQC = true
	}
	return s
}

// Without returns a copy of the set with the given role cleared.
func (s RoleSet) Without(r Role) RoleSet {
	switch r {
	case RolePrimary:
		s.Primary = false
	case RoleLQC:
		s.LQC = false
	case RoleSQC:
		s.SQC = false
	}
	return s
}

// Any reports whether any flag is set.
func (s RoleSet) Any() bool {
	return s.Primary || s.LQC || s.SQC
}

// SubsetOf reports whether every flag set in s is also set in other.
// The engine maintains InProgress.SubsetOf(Assigned) at all times.
func (s RoleSet) SubsetOf(other RoleSet) bool {
	if s.Primary && !other.Primary {
		return false
	}
	if s.LQC && !other.LQC {
		return false
	}
	if s.SQC && !other.SQC {
		return false
	}
	return true
}

// Roles returns the roles whose flag is set, in storage order.
func (s RoleSet) Roles() []Role {
	var out []Role
	for _, r := range AllRoles {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// ProgressMarks records when each slot's current in-progress period
// began. A nil entry means the slot is not in progress.
type ProgressMarks struct {
	Primary *time.Time `json:"primary,omitempty"`
	LQC     *time.Time `json:"lqc,omitempty"`
	SQC     *time.Time `json:"sqc,omitempty"`
}

// Get returns the progress start for a role, or nil.
func (m ProgressMarks) Get(r Role) *time.Time {
	switch r {
	case RolePrimary:
		return m.Primary
	case RoleLQC:
		return m.LQC
	case RoleSQC:
		return m.SQC
	}
	return nil
}

// Set records a progress start for a role. A nil value clears it.
func (m *ProgressMarks) Set(r Role, t *time.Time) {
	switch r {
	case RolePrimary:
		m.Primary = t
	case RoleLQC:
		m.LQC = t
	case RoleSQC:
		m.SQC = t
	}
}

// Project is one tracked issue mirrored from the external tracker.
type Project struct {
	IssueKey         string        `json:"issue_key"`
	Title            string        `json:"title"`
	Status           string        `json:"status"`
	Type             Type          `json:"type"`
	Languages        []string      `json:"languages,omitempty"`
	Assigned         RoleSet       `json:"assigned"`
	InProgress       RoleSet       `json:"in_progress"`
	ProgressStarts   ProgressMarks `json:"progress_starts"`
	DisplayChannelID string        `json:"display_channel_id,omitempty"`
	DisplayMessageID string        `json:"display_message_id,omitempty"`
	StaleCount       int           `json:"stale_count"`
	TeamLeadNotified bool          `json:"team_lead_notified"`
	Finished         bool          `json:"finished"`
	Abandoned        bool          `json:"abandoned"`
	LastStatusChange time.Time     `json:"last_status_change"`
	LastUpdate       time.Time     `json:"last_update"`
	CreatedAt        time.Time     `json:"created_at"`
}

// Active reports whether the project still accepts transitions.
func (p *Project) Active() bool {
	return !p.Finished && !p.Abandoned
}

// ClearRoles drops every assignment flag and progress mark. Used on
// terminal transitions and on status changes that invalidate in-flight
// assignments.
func (p *Project) ClearRoles() {
	p.Assigned = RoleSet{}
	p.InProgress = RoleSet{}
	p.ProgressStarts = ProgressMarks{}
}
