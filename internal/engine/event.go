package engine

import "github.com/airi-scans/steward/internal/domain/project"

// EventKind distinguishes issue creation from every later webhook.
type EventKind string

const (
	EventIssueCreated EventKind = "issue_created"
	EventIssueUpdated EventKind = "issue_updated"
)

// Event is one validated webhook from the issue tracker. Assignees
// carries the tracker's current assignee field per slot; a key that is
// present with an empty value means the tracker reports the slot as
// unassigned, an absent key means the webhook did not carry that field.
type Event struct {
	Kind       EventKind               `json:"kind"`
	IssueKey   string                  `json:"issue_key"`
	Title      string                  `json:"title"`
	Status     string                  `json:"status"`
	Transition string                  `json:"transition,omitempty"`
	IssueType  string                  `json:"issue_type"`
	Languages  []string                `json:"languages,omitempty"`
	Assignees  map[project.Role]string `json:"assignees,omitempty"`
}

// Statuses that end a project's lifecycle. Finished and abandoned are
// both absorbing; they differ only in how the project is reported.
var (
	finishedStatuses  = map[string]bool{"Uploaded": true, "Approved": true}
	abandonedStatuses = map[string]bool{"Abandoned": true, "Dropped": true}
)

// Named tracker transitions that assign a single slot.
var assignTransitions = map[string]project.Role{
	"Assign":     project.RolePrimary,
	"Assign LQC": project.RoleLQC,
	"Assign SQC": project.RoleSQC,
}

// Tracker workflow transition ids the sweep uses to mirror an
// auto-assignment back into the tracker.
var assignTransitionIDs = map[project.Role]string{
	project.RolePrimary: "711",
	project.RoleLQC:     "721",
	project.RoleSQC:     "731",
}

// Tracker fields holding the assignee per slot.
var assigneeFields = map[project.Role]string{
	project.RolePrimary: "assignee",
	project.RoleLQC:     "customfield_10201",
	project.RoleSQC:     "customfield_10202",
}

// TypeForIssue maps a tracker issue type to a project type. Translation
// issues carry the two parallel QC slots; everything else has a single
// assignee.
func TypeForIssue(issueType string) project.Type {
	if issueType == "Translation" {
		return project.TypeDual
	}
	return project.TypeSingle
}
