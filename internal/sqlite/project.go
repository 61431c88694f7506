package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/airi-scans/steward/internal/domain/project"
	"github.com/airi-scans/steward/internal/repository"
)

// ProjectRepository implements repository.ProjectRepository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	issue_key, title, status, type, languages,
	primary_assigned, primary_in_progress, primary_progress_start,
	lqc_assigned, lqc_in_progress, lqc_progress_start,
	sqc_assigned, sqc_in_progress, sqc_progress_start,
	display_channel_id, display_message_id,
	stale_count, team_lead_notified, finished, abandoned,
	last_status_change, last_update, created_at
`

// Create inserts a new project
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	languages, err := json.Marshal(p.Languages)
	if err != nil {
		return fmt.Errorf("failed to encode languages: %w", err)
	}

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		p.IssueKey,
		p.Title,
		p.Status,
		string(p.Type),
		string(languages),
		p.Assigned.Primary,
		p.InProgress.Primary,
		p.ProgressStarts.Primary,
		p.Assigned.LQC,
		p.InProgress.LQC,
		p.ProgressStarts.LQC,
		p.Assigned.SQC,
		p.InProgress.SQC,
		p.ProgressStarts.SQC,
		p.DisplayChannelID,
		p.DisplayMessageID,
		p.StaleCount,
		p.TeamLeadNotified,
		p.Finished,
		p.Abandoned,
		p.LastStatusChange,
		p.LastUpdate,
		p.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project by issue key
func (r *ProjectRepository) Get(ctx context.Context, issueKey string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE issue_key = ?`

	p, err := scanProject(r.db.QueryRowContext(ctx, query, issueKey))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return p, nil
}

// Update writes back every mutable field of a project
func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	languages, err := json.Marshal(p.Languages)
	if err != nil {
		return fmt.Errorf("failed to encode languages: %w", err)
	}

	query := `
		UPDATE projects SET
			title = ?,
			status = ?,
			type = ?,
			languages = ?,
			primary_assigned = ?, primary_in_progress = ?, primary_progress_start = ?,
			lqc_assigned = ?, lqc_in_progress = ?, lqc_progress_start = ?,
			sqc_assigned = ?, sqc_in_progress = ?, sqc_progress_start = ?,
			display_channel_id = ?,
			display_message_id = ?,
			stale_count = ?,
			team_lead_notified = ?,
			finished = ?,
			abandoned = ?,
			last_status_change = ?,
			last_update = ?
		WHERE issue_key = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Title,
		p.Status,
		string(p.Type),
		string(languages),
		p.Assigned.Primary, p.InProgress.Primary, p.ProgressStarts.Primary,
		p.Assigned.LQC, p.InProgress.LQC, p.ProgressStarts.LQC,
		p.Assigned.SQC, p.InProgress.SQC, p.ProgressStarts.SQC,
		p.DisplayChannelID,
		p.DisplayMessageID,
		p.StaleCount,
		p.TeamLeadNotified,
		p.Finished,
		p.Abandoned,
		p.LastStatusChange,
		p.LastUpdate,
		p.IssueKey,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
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

// ListActive returns every non-terminal project
func (r *ProjectRepository) ListActive(ctx context.Context) ([]project.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE finished = 0 AND abandoned = 0
		ORDER BY issue_key
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

// SetDisplayMessage records the external status message handle
func (r *ProjectRepository) SetDisplayMessage(ctx context.Context, issueKey, channelID, messageID string) error {
	query := `
		UPDATE projects
		SET display_channel_id = ?, display_message_id = ?
		WHERE issue_key = ?
	`

	result, err := r.db.ExecContext(ctx, query, channelID, messageID, issueKey)
	if err != nil {
		return fmt.Errorf("failed to set display message: %w", err)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var (
		p            project.Project
		typ          string
		languages    string
		primaryStart sql.NullTime
		lqcStart     sql.NullTime
		sqcStart     sql.NullTime
	)

	err := row.Scan(
		&p.IssueKey,
		&p.Title,
		&p.Status,
		&typ,
		&languages,
		&p.Assigned.Primary, &p.InProgress.Primary, &primaryStart,
		&p.Assigned.LQC, &p.InProgress.LQC, &lqcStart,
		&p.Assigned.SQC, &p.InProgress.SQC, &sqcStart,
		&p.DisplayChannelID,
		&p.DisplayMessageID,
		&p.StaleCount,
		&p.TeamLeadNotified,
		&p.Finished,
		&p.Abandoned,
		&p.LastStatusChange,
		&p.LastUpdate,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Type = project.Type(typ)
	if err := json.Unmarshal([]byte(languages), &p.Languages); err != nil {
		return nil, fmt.Errorf("failed to decode languages: %w", err)
	}
	p.ProgressStarts.Primary = nullableTime(primaryStart)
	p.ProgressStarts.LQC = nullableTime(lqcStart)
	p.ProgressStarts.SQC = nullableTime(sqcStart)

	return &p, nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
