package sqlite

import (
	"context"
	"testing"

	"github.com/airi-scans/steward/internal/domain/directory"
	"github.com/airi-scans/steward/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func seedDirectory(t *testing.T, db *DB) {
	t.Helper()

	stmts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO status_links (status, channel_id) VALUES (?, ?)`, []any{"Translating", "chan-tl"}},
		{`INSERT INTO status_links (status, channel_id) VALUES (?, ?)`, []any{"Quality Check", "chan-qc"}},
		{`INSERT INTO status_roles (status, role, group_name, per_language) VALUES (?, ?, ?, ?)`,
			[]any{"Translating", "primary", "Translator %s", 1}},
		{`INSERT INTO status_roles (status, role, group_name, per_language) VALUES (?, ?, ?, ?)`,
			[]any{"Quality Check", "lqc", "Language QC %s", 1}},
		{`INSERT INTO status_roles (status, role, group_name, per_language) VALUES (?, ?, ?, ?)`,
			[]any{"Quality Check", "sqc", "Scan QC", 0}},
		{`INSERT INTO group_links (group_name, role_id) VALUES (?, ?)`, []any{"Translator EN", "role-tl-en"}},
		{`INSERT INTO group_links (group_name, role_id) VALUES (?, ?)`, []any{"Scan QC", "role-sqc"}},
		{`INSERT INTO group_links (group_name, role_id) VALUES (?, ?)`, []any{directory.HiatusGroup, "role-hiatus"}},
	}

	for _, s := range stmts {
		_, err := db.Exec(s.query, s.args...)
		require.NoError(t, err)
	}
}

func TestDirectoryRepository_ListStatusLinks(t *testing.T) {
	db := NewTestDB(t)
	seedDirectory(t, db)
	repo := NewDirectoryRepository(db)

	links, err := repo.ListStatusLinks(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 2)

	byStatus := make(map[string]directory.StatusLink)
	for _, l := range links {
		byStatus[l.Status] = l
	}

	qc := byStatus["Quality Check"]
	require.Equal(t, "chan-qc", qc.ChannelID)
	require.Len(t, qc.Roles, 2)
	require.Equal(t, directory.RoleSpec{GroupName: "Language QC %s", PerLanguage: true}, qc.Roles[project.RoleLQC])
	require.Equal(t, directory.RoleSpec{GroupName: "Scan QC"}, qc.Roles[project.RoleSQC])

	tl := byStatus["Translating"]
	require.Len(t, tl.Roles, 1)
	require.True(t, tl.Roles[project.RolePrimary].PerLanguage)
}

func TestDirectoryRepository_ListGroupLinks(t *testing.T) {
	db := NewTestDB(t)
	seedDirectory(t, db)
	repo := NewDirectoryRepository(db)

	links, err := repo.ListGroupLinks(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 3)

	lookup := directory.NewLookup(nil, links)
	require.Equal(t, "role-hiatus", lookup.HiatusRoleID())
}
