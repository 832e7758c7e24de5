package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/staff_scheduler/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDirectoryFindByIdentityNormalizes(t *testing.T) {
	members := newMemMembers(staff("m1", "anna@staff.test", true))
	svc := NewDirectoryService(members, zaptest.NewLogger(t))

	found, err := svc.FindByIdentity(context.Background(), "  MAILTO:Anna@Staff.TEST ")
	require.NoError(t, err)
	assert.Equal(t, "m1", found.ID)

	_, err = svc.FindByIdentity(context.Background(), "ghost@staff.test")
	assert.True(t, IsNotFound(err))

	_, err = svc.FindByIdentity(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestDirectoryApplySync(t *testing.T) {
	members := newMemMembers(
		staff("m1", "anna@staff.test", true),
		staff("m2", "boris@staff.test", false),
		staff("m3", "vera@staff.test", true),
	)
	svc := NewDirectoryService(members, zaptest.NewLogger(t))
	ctx := context.Background()

	err := svc.ApplySync(ctx, wizard.Plan{
		Timezone:   "Asia/Yekaterinburg",
		Activate:   []string{"m1", "m2"},
		Deactivate: []string{"m3"},
	})
	require.NoError(t, err)

	all, err := svc.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].IsActive)
	assert.Equal(t, "Asia/Yekaterinburg", all[0].Timezone)
	assert.True(t, all[1].IsActive)
	assert.False(t, all[2].IsActive)
	assert.Empty(t, all[2].Timezone)
}

func TestDirectoryApplySyncErrors(t *testing.T) {
	members := newMemMembers(staff("m1", "anna@staff.test", true))
	svc := NewDirectoryService(members, zaptest.NewLogger(t))
	ctx := context.Background()

	err := svc.ApplySync(ctx, wizard.Plan{Timezone: "Mars/Olympus", Activate: []string{"m1"}})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	members.failAll = true
	err = svc.ApplySync(ctx, wizard.Plan{Timezone: "UTC", Activate: []string{"m1"}})
	assert.True(t, IsPersistence(err))

	assert.NoError(t, svc.ApplySync(ctx, wizard.Plan{Timezone: "UTC"}))
}

func TestDirectoryAddMember(t *testing.T) {
	members := newMemMembers(staff("m1", "anna@staff.test", false))
	svc := NewDirectoryService(members, zaptest.NewLogger(t))
	svc.newID = func() string { return "m2" }
	ctx := context.Background()

	created, err := svc.AddMember(ctx, " Boris ", "MAILTO:Boris@Staff.test", "blue")
	require.NoError(t, err)
	assert.Equal(t, "m2", created.ID)
	assert.Equal(t, "Boris", created.DisplayName)
	assert.Equal(t, "boris@staff.test", created.CalendarIdentity.String())
	assert.True(t, created.IsActive)

	renamed, err := svc.AddMember(ctx, "Anna K.", "anna@staff.test", "")
	require.NoError(t, err)
	assert.Equal(t, "m1", renamed.ID)
	assert.False(t, renamed.IsActive)

	all, err := svc.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Anna K.", all[0].DisplayName)

	_, err = svc.AddMember(ctx, "", "x@staff.test", "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = svc.AddMember(ctx, "Vera", "vera", "")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	members.failAll = true
	_, err = svc.AddMember(ctx, "Vera", "vera@staff.test", "")
	assert.True(t, IsPersistence(err))
}
