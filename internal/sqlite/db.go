package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations applies the schema. Idempotent on a fresh database;
// `steward migrate` calls this and so do repository tests.
func (db *DB) RunMigrations() error {
	migration := `
-- Tracked projects, one per tracker issue
CREATE TABLE IF NOT EXISTS projects (
    issue_key TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    type TEXT NOT NULL CHECK(type IN ('single', 'dual')),
    languages TEXT NOT NULL DEFAULT '[]',
    primary_assigned INTEGER NOT NULL DEFAULT 0,
    primary_in_progress INTEGER NOT NULL DEFAULT 0,
    primary_progress_start TIMESTAMP,
    lqc_assigned INTEGER NOT NULL DEFAULT 0,
    lqc_in_progress INTEGER NOT NULL DEFAULT 0,
    lqc_progress_start TIMESTAMP,
    sqc_assigned INTEGER NOT NULL DEFAULT 0,
    sqc_in_progress INTEGER NOT NULL DEFAULT 0,
    sqc_progress_start TIMESTAMP,
    display_channel_id TEXT NOT NULL DEFAULT '',
    display_message_id TEXT NOT NULL DEFAULT '',
    stale_count INTEGER NOT NULL DEFAULT 0,
    team_lead_notified INTEGER NOT NULL DEFAULT 0,
    finished INTEGER NOT NULL DEFAULT 0,
    abandoned INTEGER NOT NULL DEFAULT 0,
    last_status_change TIMESTAMP NOT NULL,
    last_update TIMESTAMP NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_projects_active ON projects(finished, abandoned);
CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);

-- Chat platform members who can hold assignments
CREATE TABLE IF NOT EXISTS members (
    user_id TEXT PRIMARY KEY,
    tracker_name TEXT NOT NULL DEFAULT '',
    roles TEXT NOT NULL DEFAULT '[]',
    last_assigned TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_members_tracker_name ON members(tracker_name);
CREATE INDEX IF NOT EXISTS idx_members_last_assigned ON members(last_assigned);

-- Current per-slot assignees. The primary key keeps a (project, role)
-- pair on at most one member at a time.
CREATE TABLE IF NOT EXISTS assignments (
    issue_key TEXT NOT NULL,
    role TEXT NOT NULL CHECK(role IN ('primary', 'lqc', 'sqc')),
    user_id TEXT NOT NULL,
    assigned_at TIMESTAMP NOT NULL,
    update_requested TIMESTAMP,
    update_request_count INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (issue_key, role),
    FOREIGN KEY (issue_key) REFERENCES projects(issue_key),
    FOREIGN KEY (user_id) REFERENCES members(user_id)
);
CREATE INDEX IF NOT EXISTS idx_assignments_user ON assignments(user_id);

-- Static directory: status -> display channel
CREATE TABLE IF NOT EXISTS status_links (
    status TEXT PRIMARY KEY,
    channel_id TEXT NOT NULL DEFAULT ''
);

-- Static directory: group requirement per fillable slot of a status
CREATE TABLE IF NOT EXISTS status_roles (
    status TEXT NOT NULL,
    role TEXT NOT NULL CHECK(role IN ('primary', 'lqc', 'sqc')),
    group_name TEXT NOT NULL,
    per_language INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (status, role),
    FOREIGN KEY (status) REFERENCES status_links(status)
);

-- Static directory: tracker group -> chat authorization role id
CREATE TABLE IF NOT EXISTS group_links (
    group_name TEXT PRIMARY KEY,
    role_id TEXT NOT NULL
);

-- Applied engine actions
CREATE TABLE IF NOT EXISTS audit_log (
    id TEXT PRIMARY KEY,
    issue_key TEXT NOT NULL,
    user_id TEXT NOT NULL DEFAULT '',
    action TEXT NOT NULL,
    summary TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_audit_issue ON audit_log(issue_key);
CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit_log(created_at);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
