package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/airi-scans/steward/internal/domain/project"
	"github.com/airi-scans/steward/internal/engine"
	"github.com/airi-scans/steward/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmProgress(t *testing.T) {
	env := newTestEnv(t)
	env.seedMember("u-alice", "alice", "role-pf")

	env.handle(createdEvent("SCAN-30", "Proofreading", "Oneshot"))
	env.handle(assignEvent("SCAN-30", "Proofreading", "Assign", project.RolePrimary, "alice"))
	env.advance(2 * time.Hour)

	p, err := env.eng.ConfirmProgress(context.Background(), "SCAN-30", project.RolePrimary, "u-alice")
	require.NoError(t, err)

	assert.True(t, p.InProgress.Has(project.RolePrimary))
	start := p.ProgressStarts.Get(project.RolePrimary)
	require.NotNil(t, start)
	assert.True(t, start.Equal(env.now))
}

func TestConfirmProgressReplay(t *testing.T) {
	env := newTestEnv(t)
	env.seedMember("u-alice", "alice", "role-pf")

	env.handle(createdEvent("SCAN-31", "Proofreading", "Oneshot"))
	env.handle(assignEvent("SCAN-31", "Proofreading", "Assign", project.RolePrimary, "alice"))

	_, err := env.eng.ConfirmProgress(context.Background(), "SCAN-31", project.RolePrimary, "u-alice")
	require.NoError(t, err)
	first := env.getProject("SCAN-31").ProgressStarts.Get(project.RolePrimary)
	require.NotNil(t, first)

	env.advance(time.Hour)
	_, err = env.eng.ConfirmProgress(context.Background(), "SCAN-31", project.RolePrimary, "u-alice")
	require.NoError(t, err)

	// The original start survives a repeated confirmation.
	again := env.getProject("SCAN-31").ProgressStarts.Get(project.RolePrimary)
	require.NotNil(t, again)
	assert.True(t, again.Equal(*first))
}

func TestConfirmProgressWrongUser(t *testing.T) {
	env := newTestEnv(t)
	env.seedMember("u-alice", "alice", "role-pf")
	env.seedMember("u-bob", "bob", "role-pf")

	env.handle(createdEvent("SCAN-32", "Proofreading", "Oneshot"))
	env.handle(assignEvent("SCAN-32", "Proofreading", "Assign", project.RolePrimary, "alice"))

	_, err := env.eng.ConfirmProgress(context.Background(), "SCAN-32", project.RolePrimary, "u-bob")
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestConfirmProgressUnassignedSlot(t *testing.T) {
	env := newTestEnv(t)

	env.handle(createdEvent("SCAN-33", "Proofreading", "Oneshot"))

	_, err := env.eng.ConfirmProgress(context.Background(), "SCAN-33", project.RolePrimary, "u-alice")
	assert.Error(t, err)
}

func TestConfirmProgressTerminalProject(t *testing.T) {
	env := newTestEnv(t)

	env.handle(createdEvent("SCAN-34", "Proofreading", "Oneshot"))
	env.handle(engine.Event{Kind: engine.EventIssueUpdated, IssueKey: "SCAN-34", Status: "Uploaded"})

	_, err := env.eng.ConfirmProgress(context.Background(), "SCAN-34", project.RolePrimary, "u-alice")
	assert.ErrorIs(t, err, project.ErrProjectTerminal)
}

func TestConfirmProgressUnknownProject(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.eng.ConfirmProgress(context.Background(), "SCAN-404", project.RolePrimary, "u-alice")
	assert.ErrorIs(t, err, project.ErrProjectNotFound)
}
