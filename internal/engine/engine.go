package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/airi-scans/steward/internal/domain/audit"
	"github.com/airi-scans/steward/internal/domain/directory"
	"github.com/airi-scans/steward/internal/domain/project"
	"github.com/airi-scans/steward/internal/domain/roster"
	"github.com/airi-scans/steward/internal/repository"
)

// IdentityResolver maps a tracker username to a chat platform user id.
// The production resolver reads the roster table, which the external
// identity-mapping service keeps current.
type IdentityResolver interface {
	Resolve(ctx context.Context, trackerName string) (string, error)
}

// RosterIdentity resolves identities from the members table.
type RosterIdentity struct {
	roster repository.RosterRepository
}

// NewRosterIdentity creates a resolver backed by the roster.
func NewRosterIdentity(r repository.RosterRepository) *RosterIdentity {
	return &RosterIdentity{roster: r}
}

// Resolve implements IdentityResolver.
func (r *RosterIdentity) Resolve(ctx context.Context, trackerName string) (string, error) {
	m, err := r.roster.GetMemberByTrackerName(ctx, trackerName)
	if err != nil {
		return "", roster.ErrUnknownTrackerName
	}
	return m.UserID, nil
}

// Config carries the sweep thresholds and fan-out limit. All
// comparisons against thresholds are recomputed from stored timestamps
// on every sweep, so a changed threshold applies to all projects on the
// next run.
type Config struct {
	IdleThreshold     time.Duration
	NagInterval       time.Duration
	MaxTimeTaken      time.Duration
	SweepConcurrency  int
	TeamLeadChannelID string
}

// Deps are the engine's injected collaborators.
type Deps struct {
	Projects  repository.ProjectRepository
	Roster    repository.RosterRepository
	Directory *directory.Lookup
	Identity  IdentityResolver
	Audit     repository.AuditRepository
	Clock     func() time.Time
	Logger    *slog.Logger
}

// Engine applies webhook transitions and periodic reconciliation sweeps
// to the project and roster state, emitting intents for an external
// dispatcher. Both entry points serialize per issue key.
type Engine struct {
	cfg      Config
	projects repository.ProjectRepository
	roster   repository.RosterRepository
	dir      *directory.Lookup
	identity IdentityResolver
	audit    repository.AuditRepository
	locks    *KeyedMutex
	clock    func() time.Time
	logger   *slog.Logger
}

// New creates an engine.
func New(cfg Config, deps Deps) *Engine {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SweepConcurrency <= 0 {
		cfg.SweepConcurrency = 8
	}
	return &Engine{
		cfg:      cfg,
		projects: deps.Projects,
		roster:   deps.Roster,
		dir:      deps.Directory,
		identity: deps.Identity,
		audit:    deps.Audit,
		locks:    NewKeyedMutex(),
		clock:    clock,
		logger:   logger,
	}
}

// Eligible exposes the shared eligibility predicate with the engine's
// directory, for the manual self-assignment surface.
func (e *Engine) Eligible(m *roster.Member, status string, languages []string, role project.Role) bool {
	return Eligible(e.dir, m, status, languages, role)
}

// recordAction appends an audit entry; failures are logged and dropped.
func (e *Engine) recordAction(ctx context.Context, entry *audit.Entry) {
	if e.audit == nil {
		return
	}
	if err := e.audit.Log(ctx, entry); err != nil {
		e.logger.Warn("audit write failed",
			"issue", entry.IssueKey, "action", entry.Action, "error", err)
	}
}

// assignSlot applies the shared assignment side effects: flag the slot,
// reset its progress state, upsert the ledger row, and stamp the
// member's last-assigned time. The caller persists the project.
func (e *Engine) assignSlot(ctx context.Context, p *project.Project, role project.Role, userID string, now time.Time) error {
	p.Assigned = p.Assigned.With(role)
	p.InProgress = p.InProgress.Without(role)
	p.ProgressStarts.Set(role, nil)

	if err := e.roster.PutAssignment(ctx, &roster.Assignment{
		IssueKey:   p.IssueKey,
		Role:       role,
		UserID:     userID,
		AssignedAt: now,
	}); err != nil {
		return err
	}
	if err := e.roster.TouchLastAssigned(ctx, userID, now); err != nil {
		e.logger.Warn("failed to stamp last_assigned", "user", userID, "error", err)
	}
	return nil
}

// releaseSlot applies the shared release side effects. The caller
// persists the project.
func (e *Engine) releaseSlot(ctx context.Context, p *project.Project, role project.Role) error {
	p.Assigned = p.Assigned.Without(role)
	p.InProgress = p.InProgress.Without(role)
	p.ProgressStarts.Set(role, nil)
	return e.roster.ReleaseAssignment(ctx, p.IssueKey, role)
}

// relevantRoles returns the slots fillable for the project in its
// current status. The status link decides which roles a status carries
// ("Translating" has a sole translator slot even on a dual project;
// "Quality Check" carries both QC slots); statuses without a link fall
// back to the project type's slots.
func (e *Engine) relevantRoles(p *project.Project) []project.Role {
	if link, ok := e.dir.StatusLink(p.Status); ok && len(link.Roles) > 0 {
		var roles []project.Role
		for _, r := range project.AllRoles {
			if _, ok := link.Roles[r]; ok {
				roles = append(roles, r)
			}
		}
		return roles
	}
	return project.RolesFor(p.Type)
}

// displayRefresh returns the intent that brings the project's status
// message up to date, or nil when no display is configured.
func (e *Engine) displayRefresh(p *project.Project) Intent {
	if p.DisplayChannelID == "" {
		return nil
	}
	if p.DisplayMessageID == "" {
		return CreateDisplay{IssueKey: p.IssueKey, ChannelID: p.DisplayChannelID, Content: displayContent(p)}
	}
	return UpdateDisplay{
		IssueKey:  p.IssueKey,
		ChannelID: p.DisplayChannelID,
		MessageID: p.DisplayMessageID,
		Content:   displayContent(p),
	}
}
