package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/airi-scans/steward/internal/domain/audit"
	"github.com/airi-scans/steward/internal/domain/directory"
	"github.com/airi-scans/steward/internal/domain/project"
	"github.com/airi-scans/steward/internal/domain/roster"
	"github.com/airi-scans/steward/internal/repository"
	"golang.org/x/sync/errgroup"
)

// RunSweep executes the four reconciliation passes over every active
// project: auto-assign idle work, request progress confirmation,
// release slots whose assignees never answered, and escalate
// long-running work to the team leads. Each pass is idempotent and
// fans out across projects with a bounded limit; one project's failure
// is logged and never aborts the rest of the pass. All thresholds are
// compared against stored timestamps fresh on every run.
func (e *Engine) RunSweep(ctx context.Context, now time.Time) ([]Intent, error) {
	active, err := e.projects.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active projects: %w", err)
	}

	keys := make([]string, len(active))
	for i, p := range active {
		keys[i] = p.IssueKey
	}

	var (
		mu      sync.Mutex
		intents []Intent
	)
	collect := func(batch []Intent) {
		if len(batch) == 0 {
			return
		}
		mu.Lock()
		intents = append(intents, batch...)
		mu.Unlock()
	}

	passes := []struct {
		name string
		run  func(ctx context.Context, now time.Time, issueKey string) ([]Intent, error)
	}{
		{"auto_assign", e.autoAssignPass},
		{"progress_request", e.progressRequestPass},
		{"progress_release", e.progressReleasePass},
		{"team_lead", e.teamLeadPass},
	}

	for _, pass := range passes {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.cfg.SweepConcurrency)
		for _, key := range keys {
			key := key
			g.Go(func() error {
				batch, err := pass.run(gctx, now, key)
				if err != nil {
					e.logger.Error("sweep pass failed for project",
						"pass", pass.name, "issue", key, "error", err)
					return nil
				}
				collect(batch)
				return nil
			})
		}
		// Pass goroutines swallow their own errors.
		_ = g.Wait()
	}

	return intents, nil
}

// lockedProject reloads a project under its key lock. The listing that
// selected it ran without the lock, so the stored state may have moved.
func (e *Engine) lockedProject(ctx context.Context, issueKey string) (*project.Project, func(), error) {
	unlock := e.locks.Lock(issueKey)
	p, err := e.projects.Get(ctx, issueKey)
	if err != nil {
		unlock()
		return nil, nil, fmt.Errorf("loading project: %w", err)
	}
	return p, unlock, nil
}

// autoAssignPass fills unassigned slots on projects that have sat idle
// past the threshold, picking the least recently assigned eligible
// member. An unfillable slot is left open with a warning.
func (e *Engine) autoAssignPass(ctx context.Context, now time.Time, issueKey string) ([]Intent, error) {
	p, unlock, err := e.lockedProject(ctx, issueKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !p.Active() {
		return nil, nil
	}
	if !p.LastUpdate.Before(now.Add(-e.cfg.IdleThreshold)) {
		return nil, nil
	}

	open := false
	for _, role := range e.relevantRoles(p) {
		if !p.Assigned.Has(role) {
			open = true
			break
		}
	}
	if !open {
		return nil, nil
	}

	members, err := e.roster.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}

	var intents []Intent
	changed := false
	for _, role := range e.relevantRoles(p) {
		if p.Assigned.Has(role) {
			continue
		}

		candidate := pickCandidate(e.dir, members, p.Status, p.Languages, role)
		if candidate == nil {
			e.logger.Warn("no eligible candidate for slot",
				"issue", p.IssueKey, "status", p.Status, "role", role)
			continue
		}

		if err := e.assignSlot(ctx, p, role, candidate.UserID, now); err != nil {
			e.logger.Error("auto-assign failed", "issue", p.IssueKey, "role", role, "error", err)
			continue
		}
		changed = true
		// Keep the in-memory ranking honest for the second slot of a
		// dual project.
		candidate.LastAssigned = now

		e.recordAction(ctx, &audit.Entry{
			IssueKey: p.IssueKey,
			UserID:   candidate.UserID,
			Action:   audit.ActionAutoAssigned,
			Summary:  fmt.Sprintf("%s auto-assigned to %s", roleLabel(role), candidate.TrackerName),
		})

		intents = append(intents,
			TrackerTransition{
				IssueKey:     p.IssueKey,
				TransitionID: assignTransitionIDs[role],
				Fields:       map[string]string{assigneeFields[role]: candidate.TrackerName},
			},
			Notify{Target: candidate.UserID, Content: assignedMessage(p, role)},
		)
	}

	if !changed {
		return intents, nil
	}

	p.LastUpdate = now
	if err := e.projects.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}
	if refresh := e.displayRefresh(p); refresh != nil {
		intents = append(intents, refresh)
	}
	return intents, nil
}

// pickCandidate returns the least recently assigned eligible member.
// Scanning for the minimum rather than trusting slice order keeps the
// ranking correct after the first slot of a dual project was just
// filled from the same snapshot.
func pickCandidate(dir *directory.Lookup, members []roster.Member, status string, languages []string, role project.Role) *roster.Member {
	var best *roster.Member
	for i := range members {
		m := &members[i]
		if !Eligible(dir, m, status, languages, role) {
			continue
		}
		if best == nil || assignedBefore(m, best) {
			best = m
		}
	}
	return best
}

// assignedBefore orders members for auto-assignment: never-assigned
// members come first, then oldest assignment first.
func assignedBefore(a, b *roster.Member) bool {
	if a.LastAssigned.IsZero() != b.LastAssigned.IsZero() {
		return a.LastAssigned.IsZero()
	}
	return a.LastAssigned.Before(b.LastAssigned)
}

// progressRequestPass nags assignees who have not confirmed they
// started, at most MaxUpdateRequests times per assignment.
func (e *Engine) progressRequestPass(ctx context.Context, now time.Time, issueKey string) ([]Intent, error) {
	p, unlock, err := e.lockedProject(ctx, issueKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !p.Active() {
		return nil, nil
	}

	cutoff := now.Add(-e.cfg.NagInterval)
	var intents []Intent
	for _, role := range e.relevantRoles(p) {
		if !p.Assigned.Has(role) || p.InProgress.Has(role) {
			continue
		}

		a, err := e.roster.GetAssignment(ctx, p.IssueKey, role)
		if errors.Is(err, repository.ErrNotFound) {
			e.logger.Error("assigned slot has no ledger entry", "issue", p.IssueKey, "role", role)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading assignment: %w", err)
		}

		if a.UpdateRequestCount >= roster.MaxUpdateRequests {
			continue
		}
		baseline := a.AssignedAt
		if a.UpdateRequested != nil {
			baseline = *a.UpdateRequested
		}
		if !baseline.Before(cutoff) {
			continue
		}

		if err := e.roster.SetUpdateRequested(ctx, p.IssueKey, role, now, a.UpdateRequestCount+1); err != nil {
			e.logger.Error("failed to record progress request", "issue", p.IssueKey, "role", role, "error", err)
			continue
		}

		e.recordAction(ctx, &audit.Entry{
			IssueKey: p.IssueKey,
			UserID:   a.UserID,
			Action:   audit.ActionProgressNagged,
			Summary:  fmt.Sprintf("progress request %d for %s", a.UpdateRequestCount+1, roleLabel(role)),
		})

		intents = append(intents, Notify{Target: a.UserID, Content: nagMessage(p, role, a.UpdateRequestCount)})
	}

	return intents, nil
}

// progressReleasePass reopens slots whose assignees ignored the final
// progress request, bumping the project's stale count by one.
func (e *Engine) progressReleasePass(ctx context.Context, now time.Time, issueKey string) ([]Intent, error) {
	p, unlock, err := e.lockedProject(ctx, issueKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !p.Active() {
		return nil, nil
	}

	cutoff := now.Add(-e.cfg.NagInterval)
	var intents []Intent
	changed := false
	for _, role := range e.relevantRoles(p) {
		if !p.Assigned.Has(role) || p.InProgress.Has(role) {
			continue
		}

		a, err := e.roster.GetAssignment(ctx, p.IssueKey, role)
		if errors.Is(err, repository.ErrNotFound) {
			e.logger.Error("assigned slot has no ledger entry", "issue", p.IssueKey, "role", role)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading assignment: %w", err)
		}

		if a.UpdateRequestCount < roster.MaxUpdateRequests {
			continue
		}
		if a.UpdateRequested == nil || !a.UpdateRequested.Before(cutoff) {
			continue
		}

		if err := e.releaseSlot(ctx, p, role); err != nil {
			e.logger.Error("auto-release failed", "issue", p.IssueKey, "role", role, "error", err)
			continue
		}
		changed = true
		p.StaleCount++

		e.recordAction(ctx, &audit.Entry{
			IssueKey: p.IssueKey,
			UserID:   a.UserID,
			Action:   audit.ActionAutoReleased,
			Summary:  fmt.Sprintf("%s released after %d unanswered requests", roleLabel(role), a.UpdateRequestCount),
		})

		intents = append(intents,
			Notify{Target: a.UserID, Content: releasedMessage(p, role)},
			TrackerComment{IssueKey: p.IssueKey, Body: autoReleaseComment(role)},
		)
	}

	if !changed {
		return intents, nil
	}

	p.LastUpdate = now
	if err := e.projects.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}
	if refresh := e.displayRefresh(p); refresh != nil {
		intents = append(intents, refresh)
	}
	return intents, nil
}

// teamLeadPass escalates projects whose in-progress work has exceeded
// the maximum time taken. Each project is escalated once; the flag is
// only ever set here and cleared by nothing short of a status change
// recreating the record's urgency.
func (e *Engine) teamLeadPass(ctx context.Context, now time.Time, issueKey string) ([]Intent, error) {
	p, unlock, err := e.lockedProject(ctx, issueKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !p.Active() || p.TeamLeadNotified {
		return nil, nil
	}
	if e.cfg.TeamLeadChannelID == "" {
		return nil, nil
	}

	cutoff := now.Add(-e.cfg.MaxTimeTaken)
	var overdue []project.Role
	for _, role := range e.relevantRoles(p) {
		if !p.InProgress.Has(role) {
			continue
		}
		start := p.ProgressStarts.Get(role)
		if start != nil && start.Before(cutoff) {
			overdue = append(overdue, role)
		}
	}
	if len(overdue) == 0 {
		return nil, nil
	}

	p.TeamLeadNotified = true
	if err := e.projects.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}

	e.recordAction(ctx, &audit.Entry{
		IssueKey: p.IssueKey,
		Action:   audit.ActionTeamLeadPinged,
		Summary:  fmt.Sprintf("escalated to team leads after exceeding max time in %q", p.Status),
	})

	return []Intent{Notify{Target: e.cfg.TeamLeadChannelID, Content: teamLeadMessage(p, overdue)}}, nil
}
