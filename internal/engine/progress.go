package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/airi-scans/steward/internal/domain/audit"
	"github.com/airi-scans/steward/internal/domain/project"
	"github.com/airi-scans/steward/internal/repository"
)

// ConfirmProgress records that the current assignee of a slot has
// started working: the in-progress flag goes up, the progress clock
// starts, and any pending nag state is cleared. Only the assignee
// themselves can confirm.
func (e *Engine) ConfirmProgress(ctx context.Context, issueKey string, role project.Role, userID string) (*project.Project, error) {
	unlock := e.locks.Lock(issueKey)
	defer unlock()

	now := e.clock()

	p, err := e.projects.Get(ctx, issueKey)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, project.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if !p.Active() {
		return nil, project.ErrProjectTerminal
	}
	if !p.Assigned.Has(role) {
		return nil, project.ErrUnknownRole
	}

	a, err := e.roster.GetAssignment(ctx, issueKey, role)
	if err != nil {
		return nil, fmt.Errorf("loading assignment: %w", err)
	}
	if a.UserID != userID {
		return nil, repository.ErrInvalidInput
	}

	// Already confirmed: replay-safe no-op.
	if p.InProgress.Has(role) {
		return p, nil
	}

	p.InProgress = p.InProgress.With(role)
	p.ProgressStarts.Set(role, &now)
	p.LastUpdate = now
	if err := e.projects.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}

	if err := e.roster.ResetUpdateRequests(ctx, issueKey, role); err != nil {
		e.logger.Warn("failed to reset nag state", "issue", issueKey, "role", role, "error", err)
	}

	e.recordAction(ctx, &audit.Entry{
		IssueKey: issueKey,
		UserID:   userID,
		Action:   audit.ActionProgressConfirmed,
		Summary:  fmt.Sprintf("%s confirmed progress", roleLabel(role)),
	})

	return p, nil
}
