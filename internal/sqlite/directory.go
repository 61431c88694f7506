package sqlite

import (
	"context"
	"fmt"

	"github.com/airi-scans/steward/internal/domain/directory"
	"github.com/airi-scans/steward/internal/domain/project"
)

// DirectoryRepository implements repository.DirectoryRepository for SQLite
type DirectoryRepository struct {
	db *DB
}

// NewDirectoryRepository creates a new DirectoryRepository
func NewDirectoryRepository(db *DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// ListStatusLinks loads every status link with its per-slot group
// requirements
func (r *DirectoryRepository) ListStatusLinks(ctx context.Context) ([]directory.StatusLink, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, channel_id FROM status_links ORDER BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to list status links: %w", err)
	}
	defer rows.Close()

	var links []directory.StatusLink
	index := make(map[string]int)
	for rows.Next() {
		var link directory.StatusLink
		if err := rows.Scan(&link.Status, &link.ChannelID); err != nil {
			return nil, fmt.Errorf("failed to scan status link: %w", err)
		}
		link.Roles = make(map[project.Role]directory.RoleSpec)
		index[link.Status] = len(links)
		links = append(links, link)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status link rows: %w", err)
	}

	roleRows, err := r.db.QueryContext(ctx,
		`SELECT status, role, group_name, per_language FROM status_roles ORDER BY status, role`)
	if err != nil {
		return nil, fmt.Errorf("failed to list status roles: %w", err)
	}
	defer roleRows.Close()

	for roleRows.Next() {
		var (
			status string
			role   string
			spec   directory.RoleSpec
		)
		if err := roleRows.Scan(&status, &role, &spec.GroupName, &spec.PerLanguage); err != nil {
			return nil, fmt.Errorf("failed to scan status role: %w", err)
		}
		i, ok := index[status]
		if !ok {
			continue
		}
		links[i].Roles[project.Role(role)] = spec
	}
	if err = roleRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status role rows: %w", err)
	}

	return links, nil
}

// ListGroupLinks loads every group link
func (r *DirectoryRepository) ListGroupLinks(ctx context.Context) ([]directory.GroupLink, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT group_name, role_id FROM group_links ORDER BY group_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list group links: %w", err)
	}
	defer rows.Close()

	var links []directory.GroupLink
	for rows.Next() {
		var link directory.GroupLink
		if err := rows.Scan(&link.GroupName, &link.RoleID); err != nil {
			return nil, fmt.Errorf("failed to scan group link: %w", err)
		}
		links = append(links, link)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group link rows: %w", err)
	}

	return links, nil
}
