package directory

import (
	"testing"

	"github.com/airi-scans/steward/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func testLookup() *Lookup {
	statuses := []StatusLink{
		{
			Status:    "Translating",
			ChannelID: "chan-translating",
			Roles: map[project.Role]RoleSpec{
				project.RolePrimary: {GroupName: "Translator %s", PerLanguage: true},
			},
		},
		{
			Status:    "Quality Check",
			ChannelID: "chan-qc",
			Roles: map[project.Role]RoleSpec{
				project.RoleLQC: {GroupName: "Language QC %s", PerLanguage: true},
				project.RoleSQC: {GroupName: "Scan QC"},
			},
		},
		{Status: "Idle", ChannelID: ""},
	}
	groups := []GroupLink{
		{GroupName: "Translator EN", RoleID: "role-tl-en"},
		{GroupName: "Language QC EN", RoleID: "role-lqc-en"},
		{GroupName: "Scan QC", RoleID: "role-sqc"},
		{GroupName: HiatusGroup, RoleID: "role-hiatus"},
	}
	return NewLookup(statuses, groups)
}

func TestLookup_ChannelFor(t *testing.T) {
	l := testLookup()

	ch, ok := l.ChannelFor("Translating")
	require.True(t, ok)
	require.Equal(t, "chan-translating", ch)

	// Configured status without a channel behaves like an unknown one.
	_, ok = l.ChannelFor("Idle")
	require.False(t, ok)

	_, ok = l.ChannelFor("Nonexistent")
	require.False(t, ok)
}

func TestLookup_RequiredRoleIDs(t *testing.T) {
	l := testLookup()

	ids := l.RequiredRoleIDs("Translating", []string{"EN"}, project.RolePrimary)
	require.Equal(t, []string{"role-tl-en"}, ids)

	// Languages with no matching group are skipped.
	ids = l.RequiredRoleIDs("Translating", []string{"EN", "FR"}, project.RolePrimary)
	require.Equal(t, []string{"role-tl-en"}, ids)

	ids = l.RequiredRoleIDs("Quality Check", []string{"EN"}, project.RoleSQC)
	require.Equal(t, []string{"role-sqc"}, ids)

	require.Nil(t, l.RequiredRoleIDs("Nonexistent", []string{"EN"}, project.RolePrimary))
	require.Nil(t, l.RequiredRoleIDs("Translating", []string{"EN"}, project.RoleSQC))
}

func TestLookup_HiatusRoleID(t *testing.T) {
	l := testLookup()
	require.Equal(t, "role-hiatus", l.HiatusRoleID())

	empty := NewLookup(nil, nil)
	require.Empty(t, empty.HiatusRoleID())
}
