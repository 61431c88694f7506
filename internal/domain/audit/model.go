package audit

import "time"

// Action identifies what the engine did to a project.
type Action string

const (
	ActionProjectCreated    Action = "project_created"
	ActionStatusChanged     Action = "status_changed"
	ActionRoleAssigned      Action = "role_assigned"
	ActionRoleReleased      Action = "role_released"
	ActionAutoAssigned      Action = "auto_assigned"
	ActionProgressNagged    Action = "progress_nagged"
	ActionProgressConfirmed Action = "progress_confirmed"
	ActionAutoReleased      Action = "auto_released"
	ActionTeamLeadPinged    Action = "team_lead_pinged"
	ActionProjectFinished   Action = "project_finished"
	ActionProjectDropped    Action = "project_dropped"
)

// Entry is one applied engine action. Entries are written best-effort:
// a failed write never fails the operation that produced it.
type Entry struct {
	ID        string    `json:"id"`
	IssueKey  string    `json:"issue_key"`
	UserID    string    `json:"user_id,omitempty"`
	Action    Action    `json:"action"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}
