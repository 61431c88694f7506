package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/airi-scans/steward/internal/domain/audit"
	"github.com/airi-scans/steward/internal/domain/project"
	"github.com/airi-scans/steward/internal/repository"
)

// HandleTransition consumes one validated webhook event, mutates the
// project and roster state, and returns the outbound intents.
// Idempotent under at-least-once delivery: the event's implied state is
// compared against stored state before anything is mutated, so a replay
// neither double-assigns nor double-notifies.
func (e *Engine) HandleTransition(ctx context.Context, ev Event) (*project.Project, []Intent, error) {
	if ev.IssueKey == "" {
		return nil, nil, repository.ErrInvalidInput
	}

	unlock := e.locks.Lock(ev.IssueKey)
	defer unlock()

	p, err := e.projects.Get(ctx, ev.IssueKey)
	if errors.Is(err, repository.ErrNotFound) {
		if ev.Kind == EventIssueCreated {
			return e.createProject(ctx, ev)
		}
		return nil, nil, fmt.Errorf("transition for untracked issue %s: %w", ev.IssueKey, project.ErrProjectNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading project: %w", err)
	}

	// Replayed creation event after a successful prior application.
	if ev.Kind == EventIssueCreated {
		return p, nil, nil
	}

	// Terminal states are absorbing.
	if !p.Active() {
		return p, nil, nil
	}

	if finishedStatuses[ev.Status] || abandonedStatuses[ev.Status] {
		intents, err := e.finishProject(ctx, p, ev.Status)
		return p, intents, err
	}

	if role, ok := assignTransitions[ev.Transition]; ok {
		intents, err := e.applyAssignTransition(ctx, p, ev, role)
		return p, intents, err
	}

	intents, err := e.applyStatusChange(ctx, p, ev)
	return p, intents, err
}

func (e *Engine) createProject(ctx context.Context, ev Event) (*project.Project, []Intent, error) {
	now := e.clock()

	p := &project.Project{
		IssueKey:         ev.IssueKey,
		Title:            ev.Title,
		Status:           ev.Status,
		Type:             TypeForIssue(ev.IssueType),
		Languages:        ev.Languages,
		LastStatusChange: now,
		LastUpdate:       now,
		CreatedAt:        now,
	}

	var intents []Intent
	if channel, ok := e.dir.ChannelFor(ev.Status); ok {
		p.DisplayChannelID = channel
		intents = append(intents, CreateDisplay{IssueKey: p.IssueKey, ChannelID: channel, Content: displayContent(p)})
	} else {
		e.logger.Warn("no display channel for status", "issue", p.IssueKey, "status", ev.Status)
	}

	if err := e.projects.Create(ctx, p); err != nil {
		return nil, nil, fmt.Errorf("creating project: %w", err)
	}

	e.recordAction(ctx, &audit.Entry{
		IssueKey: p.IssueKey,
		Action:   audit.ActionProjectCreated,
		Summary:  fmt.Sprintf("tracking started in status %q", p.Status),
	})

	return p, intents, nil
}

func (e *Engine) finishProject(ctx context.Context, p *project.Project, status string) ([]Intent, error) {
	now := e.clock()

	p.ClearRoles()
	if err := e.roster.ReleaseProjectAssignments(ctx, p.IssueKey); err != nil {
		return nil, fmt.Errorf("releasing assignments: %w", err)
	}

	action := audit.ActionProjectFinished
	if abandonedStatuses[status] {
		p.Abandoned = true
		action = audit.ActionProjectDropped
	} else {
		p.Finished = true
	}
	p.Status = status
	p.LastStatusChange = now
	p.LastUpdate = now

	var intents []Intent
	if p.DisplayMessageID != "" {
		intents = append(intents, DeleteDisplay{
			IssueKey:  p.IssueKey,
			ChannelID: p.DisplayChannelID,
			MessageID: p.DisplayMessageID,
		})
	}
	p.DisplayChannelID = ""
	p.DisplayMessageID = ""

	if err := e.projects.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}

	e.recordAction(ctx, &audit.Entry{
		IssueKey: p.IssueKey,
		Action:   action,
		Summary:  fmt.Sprintf("reached terminal status %q", status),
	})

	return intents, nil
}

// applyAssignTransition reconciles exactly one slot against the
// tracker's reported assignee for it. The other slot of a dual project
// is never touched: its tracker field says nothing about this one.
func (e *Engine) applyAssignTransition(ctx context.Context, p *project.Project, ev Event, role project.Role) ([]Intent, error) {
	now := e.clock()

	if !slices.Contains(e.relevantRoles(p), role) {
		e.logger.Warn("assign transition for role not on project",
			"issue", p.IssueKey, "role", role, "type", p.Type)
		return nil, nil
	}

	current, err := e.roster.GetAssignment(ctx, p.IssueKey, role)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("loading assignment: %w", err)
	}

	trackerName := ev.Assignees[role]
	if trackerName == "" {
		// Tracker reports the slot as empty.
		if current == nil && !p.Assigned.Has(role) {
			return nil, nil
		}
		if err := e.releaseSlot(ctx, p, role); err != nil {
			return nil, fmt.Errorf("releasing slot: %w", err)
		}
		p.LastUpdate = now
		if err := e.projects.Update(ctx, p); err != nil {
			return nil, fmt.Errorf("updating project: %w", err)
		}
		e.recordAction(ctx, &audit.Entry{
			IssueKey: p.IssueKey,
			Action:   audit.ActionRoleReleased,
			Summary:  fmt.Sprintf("%s unassigned via tracker", roleLabel(role)),
		})
		var intents []Intent
		if refresh := e.displayRefresh(p); refresh != nil {
			intents = append(intents, refresh)
		}
		return intents, nil
	}

	userID, err := e.identity.Resolve(ctx, trackerName)
	if err != nil {
		return nil, fmt.Errorf("resolving identity of %q: %w", trackerName, err)
	}

	// Same assignee already stored: replayed delivery, nothing to do.
	if current != nil && current.UserID == userID && p.Assigned.Has(role) {
		return nil, nil
	}

	if err := e.assignSlot(ctx, p, role, userID, now); err != nil {
		return nil, fmt.Errorf("assigning slot: %w", err)
	}
	p.LastUpdate = now
	if err := e.projects.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}

	e.recordAction(ctx, &audit.Entry{
		IssueKey: p.IssueKey,
		UserID:   userID,
		Action:   audit.ActionRoleAssigned,
		Summary:  fmt.Sprintf("%s assigned to %s via tracker", roleLabel(role), trackerName),
	})

	var intents []Intent
	if refresh := e.displayRefresh(p); refresh != nil {
		intents = append(intents, refresh)
	}
	intents = append(intents, Notify{Target: userID, Content: assignedMessage(p, role)})
	return intents, nil
}

// applyStatusChange handles a webhook with no recognized transition
// name: a plain move between tracker statuses, or a field edit within
// the same status.
func (e *Engine) applyStatusChange(ctx context.Context, p *project.Project, ev Event) ([]Intent, error) {
	now := e.clock()

	channel, hasChannel := e.dir.ChannelFor(ev.Status)
	if !hasChannel {
		// No display to maintain in this status.
		e.logger.Warn("no display channel for status", "issue", p.IssueKey, "status", ev.Status)
		statusChanged := p.Status != ev.Status
		p.Status = ev.Status
		p.DisplayChannelID = ""
		p.DisplayMessageID = ""
		if statusChanged {
			p.LastStatusChange = now
		}
		p.LastUpdate = now
		if err := e.projects.Update(ctx, p); err != nil {
			return nil, fmt.Errorf("updating project: %w", err)
		}
		return nil, nil
	}

	if ev.Status == p.Status {
		// Field edit only; refresh the display content.
		if ev.Title != "" {
			p.Title = ev.Title
		}
		if ev.Languages != nil {
			p.Languages = ev.Languages
		}
		p.LastUpdate = now
		if err := e.projects.Update(ctx, p); err != nil {
			return nil, fmt.Errorf("updating project: %w", err)
		}
		var intents []Intent
		if refresh := e.displayRefresh(p); refresh != nil {
			intents = append(intents, refresh)
		}
		return intents, nil
	}

	// A status move invalidates every in-flight assignment.
	if err := e.roster.ReleaseProjectAssignments(ctx, p.IssueKey); err != nil {
		return nil, fmt.Errorf("releasing assignments: %w", err)
	}
	p.ClearRoles()

	var intents []Intent
	if p.DisplayMessageID != "" {
		intents = append(intents, DeleteDisplay{
			IssueKey:  p.IssueKey,
			ChannelID: p.DisplayChannelID,
			MessageID: p.DisplayMessageID,
		})
	}

	previous := p.Status
	p.Status = ev.Status
	if ev.Title != "" {
		p.Title = ev.Title
	}
	if ev.Languages != nil {
		p.Languages = ev.Languages
	}
	p.DisplayChannelID = channel
	p.DisplayMessageID = ""
	p.LastStatusChange = now
	p.LastUpdate = now

	intents = append(intents, CreateDisplay{IssueKey: p.IssueKey, ChannelID: channel, Content: displayContent(p)})

	if err := e.projects.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}

	e.recordAction(ctx, &audit.Entry{
		IssueKey: p.IssueKey,
		Action:   audit.ActionStatusChanged,
		Summary:  fmt.Sprintf("status %q -> %q", previous, ev.Status),
	})

	return intents, nil
}
