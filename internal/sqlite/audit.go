package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/airi-scans/steward/internal/domain/audit"
	"github.com/airi-scans/steward/internal/repository"
	"github.com/google/uuid"
)

// AuditRepository implements repository.AuditRepository for SQLite
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Log appends one engine action entry
func (r *AuditRepository) Log(ctx context.Context, entry *audit.Entry) error {
	if entry == nil {
		return repository.ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO audit_log (id, issue_key, user_id, action, summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.IssueKey, entry.UserID, string(entry.Action), entry.Summary, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log audit entry: %w", err)
	}
	return nil
}

// List returns entries newest first, filtered by issue key and user
func (r *AuditRepository) List(ctx context.Context, opts repository.ListAuditOptions) ([]audit.Entry, error) {
	query := `SELECT id, issue_key, user_id, action, summary, created_at FROM audit_log WHERE 1=1`
	var args []any

	if opts.IssueKey != "" {
		query += ` AND issue_key = ?`
		args = append(args, opts.IssueKey)
	}
	if opts.UserID != "" {
		query += ` AND user_id = ?`
		args = append(args, opts.UserID)
	}

	query += ` ORDER BY created_at DESC, id`

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if opts.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			entry  audit.Entry
			action string
		)
		if err := rows.Scan(&entry.ID, &entry.IssueKey, &entry.UserID, &action, &entry.Summary, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entry.Action = audit.Action(action)
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}

	return entries, nil
}
