package engine_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/airi-scans/steward/internal/domain/directory"
	"github.com/airi-scans/steward/internal/domain/project"
	"github.com/airi-scans/steward/internal/domain/roster"
	"github.com/airi-scans/steward/internal/engine"
	"github.com/airi-scans/steward/internal/sqlite"
	"github.com/stretchr/testify/require"
)

// testEnv wires an engine against in-memory repositories with a
// controllable clock.
type testEnv struct {
	t        *testing.T
	eng      *engine.Engine
	projects *sqlite.ProjectRepository
	roster   *sqlite.RosterRepository
	now      time.Time
}

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testDirectory() *directory.Lookup {
	statuses := []directory.StatusLink{
		{
			Status:    "Translating",
			ChannelID: "chan-tl",
			Roles: map[project.Role]directory.RoleSpec{
				project.RolePrimary: {GroupName: "Translator %s", PerLanguage: true},
			},
		},
		{
			Status:    "Proofreading",
			ChannelID: "chan-pf",
			Roles: map[project.Role]directory.RoleSpec{
				project.RolePrimary: {GroupName: "Proofreader"},
			},
		},
		{
			Status:    "Quality Check",
			ChannelID: "chan-qc",
			Roles: map[project.Role]directory.RoleSpec{
				project.RoleLQC: {GroupName: "Language QC %s", PerLanguage: true},
				project.RoleSQC: {GroupName: "Scan QC"},
			},
		},
	}
	groups := []directory.GroupLink{
		{GroupName: "Translator EN", RoleID: "role-tl-en"},
		{GroupName: "Proofreader", RoleID: "role-pf"},
		{GroupName: "Language QC EN", RoleID: "role-lqc-en"},
		{GroupName: "Scan QC", RoleID: "role-sqc"},
		{GroupName: directory.HiatusGroup, RoleID: "role-hiatus"},
	}
	return directory.NewLookup(statuses, groups)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		t:        t,
		projects: sqlite.NewProjectRepository(db),
		roster:   sqlite.NewRosterRepository(db),
		now:      testStart,
	}

	env.eng = engine.New(
		engine.Config{
			IdleThreshold:     24 * time.Hour,
			NagInterval:       48 * time.Hour,
			MaxTimeTaken:      21 * 24 * time.Hour,
			SweepConcurrency:  2,
			TeamLeadChannelID: "chan-leads",
		},
		engine.Deps{
			Projects:  env.projects,
			Roster:    env.roster,
			Directory: testDirectory(),
			Identity:  engine.NewRosterIdentity(env.roster),
			Audit:     sqlite.NewAuditRepository(db),
			Clock:     func() time.Time { return env.now },
			Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
	)

	return env
}

func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

func (e *testEnv) seedMember(userID, trackerName string, roles ...string) {
	e.t.Helper()
	require.NoError(e.t, e.roster.UpsertMember(context.Background(), &roster.Member{
		UserID:      userID,
		TrackerName: trackerName,
		Roles:       roles,
	}))
}

func (e *testEnv) seedMemberAssignedAt(userID, trackerName string, lastAssigned time.Time, roles ...string) {
	e.t.Helper()
	require.NoError(e.t, e.roster.UpsertMember(context.Background(), &roster.Member{
		UserID:       userID,
		TrackerName:  trackerName,
		Roles:        roles,
		LastAssigned: lastAssigned,
	}))
}

func (e *testEnv) handle(ev engine.Event) (*project.Project, []engine.Intent) {
	e.t.Helper()
	p, intents, err := e.eng.HandleTransition(context.Background(), ev)
	require.NoError(e.t, err)
	return p, intents
}

func (e *testEnv) getProject(issueKey string) *project.Project {
	e.t.Helper()
	p, err := e.projects.Get(context.Background(), issueKey)
	require.NoError(e.t, err)
	return p
}

// intentsOf filters intents by concrete type.
func intentsOf[T engine.Intent](list []engine.Intent) []T {
	var out []T
	for _, in := range list {
		if v, ok := in.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func createdEvent(issueKey, status, issueType string, languages ...string) engine.Event {
	return engine.Event{
		Kind:      engine.EventIssueCreated,
		IssueKey:  issueKey,
		Title:     "Chapter 1",
		Status:    status,
		IssueType: issueType,
		Languages: languages,
	}
}
