package repository

import (
	"context"
	"time"

	"github.com/airi-scans/steward/internal/domain/audit"
	"github.com/airi-scans/steward/internal/domain/directory"
	"github.com/airi-scans/steward/internal/domain/project"
	"github.com/airi-scans/steward/internal/domain/roster"
)

// ProjectRepository manages project persistence.
type ProjectRepository interface {
	Create(ctx context.Context, p *project.Project) error
	Get(ctx context.Context, issueKey string) (*project.Project, error)
	Update(ctx context.Context, p *project.Project) error
	// ListActive returns every project that is neither finished nor
	// abandoned. Sweep passes filter the result in memory so that
	// threshold changes take effect uniformly on the next run.
	ListActive(ctx context.Context) ([]project.Project, error)
	// SetDisplayMessage records the handle of the external status
	// message after the dispatcher has created it.
	SetDisplayMessage(ctx context.Context, issueKey, channelID, messageID string) error
}

// RosterRepository manages members and their assignments.
type RosterRepository interface {
	GetMember(ctx context.Context, userID string) (*roster.Member, error)
	// GetMemberByTrackerName is the tracker-username to chat-identity
	// map; the members table is refreshed out-of-band.
	GetMemberByTrackerName(ctx context.Context, trackerName string) (*roster.Member, error)
	UpsertMember(ctx context.Context, m *roster.Member) error
	SetMemberRoles(ctx context.Context, userID string, roles []string) error
	TouchLastAssigned(ctx context.Context, userID string, at time.Time) error
	// ListMembers returns all members ordered least-recently-assigned
	// first, the ranking auto-assignment uses.
	ListMembers(ctx context.Context) ([]roster.Member, error)

	GetAssignment(ctx context.Context, issueKey string, role project.Role) (*roster.Assignment, error)
	ListAssignments(ctx context.Context, issueKey string) ([]roster.Assignment, error)
	ListMemberAssignments(ctx context.Context, userID string) ([]roster.Assignment, error)
	// PutAssignment upserts on (issue key, role); the table's primary
	// key keeps a slot referenced by at most one member.
	PutAssignment(ctx context.Context, a *roster.Assignment) error
	ReleaseAssignment(ctx context.Context, issueKey string, role project.Role) error
	ReleaseProjectAssignments(ctx context.Context, issueKey string) error
	SetUpdateRequested(ctx context.Context, issueKey string, role project.Role, at time.Time, count int) error
	// ResetUpdateRequests clears the nag state for a slot; called when
	// the assignee confirms progress.
	ResetUpdateRequests(ctx context.Context, issueKey string, role project.Role) error
}

// DirectoryRepository loads the static link tables at startup.
type DirectoryRepository interface {
	ListStatusLinks(ctx context.Context) ([]directory.StatusLink, error)
	ListGroupLinks(ctx context.Context) ([]directory.GroupLink, error)
}

// AuditRepository appends and lists engine action entries.
type AuditRepository interface {
	Log(ctx context.Context, entry *audit.Entry) error
	List(ctx context.Context, opts ListAuditOptions) ([]audit.Entry, error)
}

// ListAuditOptions filters audit listing.
type ListAuditOptions struct {
	IssueKey string
	UserID   string
	Limit    int
	Offset   int
}
