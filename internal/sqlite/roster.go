package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/airi-scans/steward/internal/domain/project"
	"github.com/airi-scans/steward/internal/domain/roster"
	"github.com/airi-scans/steward/internal/repository"
)

// RosterRepository implements repository.RosterRepository for SQLite
type RosterRepository struct {
	db *DB
}

// NewRosterRepository creates a new RosterRepository
func NewRosterRepository(db *DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// GetMember retrieves a member by chat user id
func (r *RosterRepository) GetMember(ctx context.Context, userID string) (*roster.Member, error) {
	query := `
		SELECT user_id, tracker_name, roles, last_assigned, created_at
		FROM members
		WHERE user_id = ?
	`
	return r.getMember(ctx, query, userID)
}

// GetMemberByTrackerName retrieves a member by tracker username
func (r *RosterRepository) GetMemberByTrackerName(ctx context.Context, trackerName string) (*roster.Member, error) {
	query := `
		SELECT user_id, tracker_name, roles, last_assigned, created_at
		FROM members
		WHERE tracker_name = ?
	`
	return r.getMember(ctx, query, trackerName)
}

func (r *RosterRepository) getMember(ctx context.Context, query, arg string) (*roster.Member, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// UpsertMember inserts or replaces a member row
func (r *RosterRepository) UpsertMember(ctx context.Context, m *roster.Member) error {
	roles, err := json.Marshal(m.Roles)
	if err != nil {
		return fmt.Errorf("failed to encode roles: %w", err)
	}

	query := `
		INSERT INTO members (user_id, tracker_name, roles, last_assigned, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			tracker_name = excluded.tracker_name,
			roles = excluded.roles,
			last_assigned = excluded.last_assigned
	`

	var lastAssigned any
	if !m.LastAssigned.IsZero() {
		lastAssigned = m.LastAssigned
	}
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if _, err := r.db.ExecContext(ctx, query, m.UserID, m.TrackerName, string(roles), lastAssigned, createdAt); err != nil {
		return fmt.Errorf("failed to upsert member: %w", err)
	}
	return nil
}

// SetMemberRoles replaces a member's authorization role ids
func (r *RosterRepository) SetMemberRoles(ctx context.Context, userID string, roles []string) error {
	encoded, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("failed to encode roles: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE members SET roles = ? WHERE user_id = ?`, string(encoded), userID)
	if err != nil {
		return fmt.Errorf("failed to set member roles: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// TouchLastAssigned stamps the member's last assignment time
func (r *RosterRepository) TouchLastAssigned(ctx context.Context, userID string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE members SET last_assigned = ? WHERE user_id = ?`, at, userID)
	if err != nil {
		return fmt.Errorf("failed to touch last_assigned: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListMembers returns all members, least recently assigned first.
// Members who have never been assigned sort before everyone else.
func (r *RosterRepository) ListMembers(ctx context.Context) ([]roster.Member, error) {
	query := `
		SELECT user_id, tracker_name, roles, last_assigned, created_at
		FROM members
		ORDER BY last_assigned IS NOT NULL, last_assigned ASC, user_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []roster.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, *m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return members, nil
}

const assignmentColumns = `issue_key, role, user_id, assigned_at, update_requested, update_request_count`

// GetAssignment retrieves the current assignee of one project slot
func (r *RosterRepository) GetAssignment(ctx context.Context, issueKey string, role project.Role) (*roster.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE issue_key = ? AND role = ?`

	a, err := scanAssignment(r.db.QueryRowContext(ctx, query, issueKey, string(role)))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}

// ListAssignments returns every assignment on one project
func (r *RosterRepository) ListAssignments(ctx context.Context, issueKey string) ([]roster.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE issue_key = ? ORDER BY role`
	return r.listAssignments(ctx, query, issueKey)
}

// ListMemberAssignments returns every assignment held by one member
func (r *RosterRepository) ListMemberAssignments(ctx context.Context, userID string) ([]roster.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE user_id = ? ORDER BY issue_key, role`
	return r.listAssignments(ctx, query, userID)
}

func (r *RosterRepository) listAssignments(ctx context.Context, query, arg string) ([]roster.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []roster.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignment rows: %w", err)
	}

	return assignments, nil
}

// PutAssignment upserts the assignee of one project slot and resets its
// nag state
func (r *RosterRepository) PutAssignment(ctx context.Context, a *roster.Assignment) error {
	query := `
		INSERT INTO assignments (issue_key, role, user_id, assigned_at, update_requested, update_request_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(issue_key, role) DO UPDATE SET
			user_id = excluded.user_id,
			assigned_at = excluded.assigned_at,
			update_requested = excluded.update_requested,
			update_request_count = excluded.update_request_count
	`

	var requested any
	if a.UpdateRequested != nil {
		requested = *a.UpdateRequested
	}

	if _, err := r.db.ExecContext(ctx, query,
		a.IssueKey, string(a.Role), a.UserID, a.AssignedAt, requested, a.UpdateRequestCount); err != nil {
		return fmt.Errorf("failed to put assignment: %w", err)
	}
	return nil
}

// ReleaseAssignment removes the assignee of one project slot
func (r *RosterRepository) ReleaseAssignment(ctx context.Context, issueKey string, role project.Role) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM assignments WHERE issue_key = ? AND role = ?`, issueKey, string(role)); err != nil {
		return fmt.Errorf("failed to release assignment: %w", err)
	}
	return nil
}

// ReleaseProjectAssignments removes every assignment on one project
func (r *RosterRepository) ReleaseProjectAssignments(ctx context.Context, issueKey string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM assignments WHERE issue_key = ?`, issueKey); err != nil {
		return fmt.Errorf("failed to release project assignments: %w", err)
	}
	return nil
}

// SetUpdateRequested stamps the nag time and counter for one slot
func (r *RosterRepository) SetUpdateRequested(ctx context.Context, issueKey string, role project.Role, at time.Time, count int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE assignments SET update_requested = ?, update_request_count = ? WHERE issue_key = ? AND role = ?`,
		at, count, issueKey, string(role))
	if err != nil {
		return fmt.Errorf("failed to set update request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ResetUpdateRequests clears the nag state for one slot
func (r *RosterRepository) ResetUpdateRequests(ctx context.Context, issueKey string, role project.Role) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE assignments SET update_requested = NULL, update_request_count = 0 WHERE issue_key = ? AND role = ?`,
		issueKey, string(role))
	if err != nil {
		return fmt.Errorf("failed to reset update requests: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanMember(row rowScanner) (*roster.Member, error) {
	var (
		m            roster.Member
		roles        string
		lastAssigned sql.NullTime
	)

	if err := row.Scan(&m.UserID, &m.TrackerName, &roles, &lastAssigned, &m.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(roles), &m.Roles); err != nil {
		return nil, fmt.Errorf("failed to decode roles: %w", err)
	}
	if lastAssigned.Valid {
		m.LastAssigned = lastAssigned.Time
	}

	return &m, nil
}

func scanAssignment(row rowScanner) (*roster.Assignment, error) {
	var (
		a         roster.Assignment
		role      string
		requested sql.NullTime
	)

	if err := row.Scan(&a.IssueKey, &role, &a.UserID, &a.AssignedAt, &requested, &a.UpdateRequestCount); err != nil {
		return nil, err
	}

	a.Role = project.Role(role)
	a.UpdateRequested = nullableTime(requested)

	return &a, nil
}
