package mocks

import (
	"context"
	"time"

	"github.com/airi-scans/steward/internal/domain/audit"
	"github.com/airi-scans/steward/internal/domain/directory"
	"github.com/airi-scans/steward/internal/domain/project"
	"github.com/airi-scans/steward/internal/domain/roster"
	"github.com/airi-scans/steward/internal/repository"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for repository.ProjectRepository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, issueKey string) (*project.Project, error) {
	args := m.Called(ctx, issueKey)
	if p, ok := args.Get(0).(*project.Project); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProjectRepository) ListActive(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) SetDisplayMessage(ctx context.Context, issueKey, channelID, messageID string) error {
	args := m.Called(ctx, issueKey, channelID, messageID)
	return args.Error(0)
}

// RosterRepository is a mock for repository.RosterRepository.
type RosterRepository struct {
	mock.Mock
}

func (m *RosterRepository) GetMember(ctx context.Context, userID string) (*roster.Member, error) {
	args := m.Called(ctx, userID)
	if mem, ok := args.Get(0).(*roster.Member); ok {
		return mem, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RosterRepository) GetMemberByTrackerName(ctx context.Context, trackerName string) (*roster.Member, error) {
	args := m.Called(ctx, trackerName)
	if mem, ok := args.Get(0).(*roster.Member); ok {
		return mem, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RosterRepository) UpsertMember(ctx context.Context, mem *roster.Member) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *RosterRepository) SetMemberRoles(ctx context.Context, userID string, roles []string) error {
	args := m.Called(ctx, userID, roles)
	return args.Error(0)
}

func (m *RosterRepository) TouchLastAssigned(ctx context.Context, userID string, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *RosterRepository) ListMembers(ctx context.Context) ([]roster.Member, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]roster.Member); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RosterRepository) GetAssignment(ctx context.Context, issueKey string, role project.Role) (*roster.Assignment, error) {
	args := m.Called(ctx, issueKey, role)
	if a, ok := args.Get(0).(*roster.Assignment); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RosterRepository) ListAssignments(ctx context.Context, issueKey string) ([]roster.Assignment, error) {
	args := m.Called(ctx, issueKey)
	if list, ok := args.Get(0).([]roster.Assignment); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RosterRepository) ListMemberAssignments(ctx context.Context, userID string) ([]roster.Assignment, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]roster.Assignment); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RosterRepository) PutAssignment(ctx context.Context, a *roster.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *RosterRepository) ReleaseAssignment(ctx context.Context, issueKey string, role project.Role) error {
	args := m.Called(ctx, issueKey, role)
	return args.Error(0)
}

func (m *RosterRepository) ReleaseProjectAssignments(ctx context.Context, issueKey string) error {
	args := m.Called(ctx, issueKey)
	return args.Error(0)
}

func (m *RosterRepository) SetUpdateRequested(ctx context.Context, issueKey string, role project.Role, at time.Time, count int) error {
	args := m.Called(ctx, issueKey, role, at, count)
	return args.Error(0)
}

func (m *RosterRepository) ResetUpdateRequests(ctx context.Context, issueKey string, role project.Role) error {
	args := m.Called(ctx, issueKey, role)
	return args.Error(0)
}

// DirectoryRepository is a mock for repository.DirectoryRepository.
type DirectoryRepository struct {
	mock.Mock
}

func (m *DirectoryRepository) ListStatusLinks(ctx context.Context) ([]directory.StatusLink, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]directory.StatusLink); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DirectoryRepository) ListGroupLinks(ctx context.Context) ([]directory.GroupLink, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]directory.GroupLink); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// AuditRepository is a mock for repository.AuditRepository.
type AuditRepository struct {
	mock.Mock
}

func (m *AuditRepository) Log(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *AuditRepository) List(ctx context.Context, opts repository.ListAuditOptions) ([]audit.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]audit.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
