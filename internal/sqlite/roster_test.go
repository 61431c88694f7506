package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/airi-scans/steward/internal/domain/project"
	"github.com/airi-scans/steward/internal/domain/roster"
	"github.com/airi-scans/steward/internal/repository"
	"github.com/stretchr/testify/require"
)

func seedMember(t *testing.T, repo *RosterRepository, userID, trackerName string, lastAssigned time.Time) {
	t.Helper()
	require.NoError(t, repo.UpsertMember(context.Background(), &roster.Member{
		UserID:       userID,
		TrackerName:  trackerName,
		Roles:        []string{"role-a"},
		LastAssigned: lastAssigned,
	}))
}

func TestRosterRepository_Members(t *testing.T) {
	db := NewTestDB(t)
	repo := NewRosterRepository(db)
	ctx := context.Background()

	seedMember(t, repo, "u1", "alice", time.Time{})

	got, err := repo.GetMember(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "alice", got.TrackerName)
	require.Equal(t, []string{"role-a"}, got.Roles)
	require.True(t, got.LastAssigned.IsZero())

	got, err = repo.GetMemberByTrackerName(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "u1", got.UserID)

	_, err = repo.GetMember(ctx, "u404")
	require.Equal(t, repository.ErrNotFound, err)
	_, err = repo.GetMemberByTrackerName(ctx, "nobody")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestRosterRepository_SetMemberRoles(t *testing.T) {
	db := NewTestDB(t)
	repo := NewRosterRepository(db)
	ctx := context.Background()

	seedMember(t, repo, "u1", "alice", time.Time{})
	require.NoError(t, repo.SetMemberRoles(ctx, "u1", []string{"role-b", "role-c"}))

	got, err := repo.GetMember(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"role-b", "role-c"}, got.Roles)

	require.Equal(t, repository.ErrNotFound, repo.SetMemberRoles(ctx, "u404", nil))
}

func TestRosterRepository_ListMembersOrder(t *testing.T) {
	db := NewTestDB(t)
	repo := NewRosterRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	seedMember(t, repo, "u-recent", "recent", now)
	seedMember(t, repo, "u-old", "old", now.Add(-72*time.Hour))
	seedMember(t, repo, "u-never", "never", time.Time{})

	members, err := repo.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 3)
	// Never-assigned first, then oldest assignment first.
	require.Equal(t, "u-never", members[0].UserID)
	require.Equal(t, "u-old", members[1].UserID)
	require.Equal(t, "u-recent", members[2].UserID)
}

func TestRosterRepository_Assignments(t *testing.T) {
	db := NewTestDB(t)
	projects := NewProjectRepository(db)
	repo := NewRosterRepository(db)
	ctx := context.Background()

	require.NoError(t, projects.Create(ctx, newTestProject("PROJ-1")))
	seedMember(t, repo, "u1", "alice", time.Time{})
	seedMember(t, repo, "u2", "bob", time.Time{})

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.PutAssignment(ctx, &roster.Assignment{
		IssueKey:   "PROJ-1",
		Role:       project.RoleLQC,
		UserID:     "u1",
		AssignedAt: now,
	}))

	got, err := repo.GetAssignment(ctx, "PROJ-1", project.RoleLQC)
	require.NoError(t, err)
	require.Equal(t, "u1", got.UserID)
	require.Nil(t, got.UpdateRequested)
	require.Zero(t, got.UpdateRequestCount)

	// Reassigning the same slot replaces the holder; the slot can never
	// be held twice.
	require.NoError(t, repo.PutAssignment(ctx, &roster.Assignment{
		IssueKey:   "PROJ-1",
		Role:       project.RoleLQC,
		UserID:     "u2",
		AssignedAt: now,
	}))

	list, err := repo.ListAssignments(ctx, "PROJ-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "u2", list[0].UserID)

	byUser, err := repo.ListMemberAssignments(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, byUser)
	byUser, err = repo.ListMemberAssignments(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, byUser, 1)

	_, err = repo.GetAssignment(ctx, "PROJ-1", project.RoleSQC)
	require.Equal(t, repository.ErrNotFound, err)
}

func TestRosterRepository_UpdateRequests(t *testing.T) {
	db := NewTestDB(t)
	projects := NewProjectRepository(db)
	repo := NewRosterRepository(db)
	ctx := context.Background()

	require.NoError(t, projects.Create(ctx, newTestProject("PROJ-1")))
	seedMember(t, repo, "u1", "alice", time.Time{})

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.PutAssignment(ctx, &roster.Assignment{
		IssueKey:   "PROJ-1",
		Role:       project.RolePrimary,
		UserID:     "u1",
		AssignedAt: now,
	}))

	require.NoError(t, repo.SetUpdateRequested(ctx, "PROJ-1", project.RolePrimary, now, 2))

	got, err := repo.GetAssignment(ctx, "PROJ-1", project.RolePrimary)
	require.NoError(t, err)
	require.NotNil(t, got.UpdateRequested)
	require.Equal(t, now, got.UpdateRequested.UTC())
	require.Equal(t, 2, got.UpdateRequestCount)

	require.NoError(t, repo.ResetUpdateRequests(ctx, "PROJ-1", project.RolePrimary))
	got, err = repo.GetAssignment(ctx, "PROJ-1", project.RolePrimary)
	require.NoError(t, err)
	require.Nil(t, got.UpdateRequested)
	require.Zero(t, got.UpdateRequestCount)

	require.Equal(t, repository.ErrNotFound,
		repo.SetUpdateRequested(ctx, "PROJ-1", project.RoleSQC, now, 1))
}

func TestRosterRepository_Release(t *testing.T) {
	db := NewTestDB(t)
	projects := NewProjectRepository(db)
	repo := NewRosterRepository(db)
	ctx := context.Background()

	require.NoError(t, projects.Create(ctx, newTestProject("PROJ-1")))
	seedMember(t, repo, "u1", "alice", time.Time{})
	seedMember(t, repo, "u2", "bob", time.Time{})

	now := time.Now().UTC()
	require.NoError(t, repo.PutAssignment(ctx, &roster.Assignment{
		IssueKey: "PROJ-1", Role: project.RoleLQC, UserID: "u1", AssignedAt: now,
	}))
	require.NoError(t, repo.PutAssignment(ctx, &roster.Assignment{
		IssueKey: "PROJ-1", Role: project.RoleSQC, UserID: "u2", AssignedAt: now,
	}))

	require.NoError(t, repo.ReleaseAssignment(ctx, "PROJ-1", project.RoleLQC))
	list, err := repo.ListAssignments(ctx, "PROJ-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, project.RoleSQC, list[0].Role)

	require.NoError(t, repo.ReleaseProjectAssignments(ctx, "PROJ-1"))
	list, err = repo.ListAssignments(ctx, "PROJ-1")
	require.NoError(t, err)
	require.Empty(t, list)

	// Releasing an unassigned slot is a no-op.
	require.NoError(t, repo.ReleaseAssignment(ctx, "PROJ-1", project.RoleLQC))
}
