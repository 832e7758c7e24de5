package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newRoster(t *testing.T, f *fixture) *RosterService {
	t.Helper()
	return NewRosterService(f.slots, f.members, f.gateway, RosterOptions{
		SlotDuration:    time.Hour,
		CallTimeout:     time.Second,
		Concurrency:     2,
		DefaultTimezone: "UTC",
	}, zaptest.NewLogger(t))
}

func memberIDs(r *Roster) []string {
	ids := make([]string, 0, len(r.Members))
	for _, m := range r.Members {
		ids = append(ids, m.Member.ID)
	}
	return ids
}

func TestBookingFlowEndToEnd(t *testing.T) {
	at14 := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	at16 := time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC)
	f := newFixture(t,
		requestedSlot("s1", "g1", 1, at14),
		requestedSlot("s2", "g1", 2, at16),
	)
	f.gateway.AddBusy("anna@staff.test", at14, at14.Add(time.Hour))
	roster := newRoster(t, f)
	ctx := context.Background()

	checked, err := roster.CheckSlot(ctx, "s1", "UTC")
	require.NoError(t, err)
	assert.Equal(t, "s1", checked.SlotID)
	assert.Equal(t, []string{"m2", "m1"}, memberIDs(checked))
	assert.True(t, checked.Members[0].Available)
	assert.False(t, checked.Members[1].Available)

	res, err := f.svc.Assign(ctx, "s1", checked.Members[0].Member.ID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "m2", res.Member.ID)
	assert.NotEmpty(t, res.MeetingLink)
	require.NotNil(t, res.Slot.ExternalEventID)
	assert.NotEmpty(t, *res.Slot.ExternalEventID)

	s1 := f.slots.get("s1")
	assert.Equal(t, model.SlotStatusScheduled, s1.Status)
	assert.NotEmpty(t, *s1.MeetingLink)
	assert.NotEmpty(t, *s1.ExternalEventID)

	s2 := f.slots.get("s2")
	assert.Equal(t, model.SlotStatusRejected, s2.Status)
	assert.Equal(t, ReasonSiblingConfirmed, *s2.RejectionReason)

	group, err := f.slots.GetByGroup(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, model.GroupStatusScheduled, model.ResolveGroupStatus(group))

	// новая встреча теперь занимает календарь m2
	again, err := roster.CheckInstant(ctx, at14, "UTC")
	require.NoError(t, err)
	for _, m := range again.Members {
		assert.False(t, m.Available, m.Member.ID)
	}
}

func TestRosterFetchFailureTreatsMemberAsFree(t *testing.T) {
	f := newFixture(t)
	f.gateway.AddBusy("boris@staff.test", base, base.Add(time.Hour))
	f.gateway.Fail("list", "anna@staff.test")

	r, err := newRoster(t, f).CheckInstant(context.Background(), base, "UTC")
	require.NoError(t, err)

	require.Len(t, r.Members, 2)
	assert.Equal(t, "m1", r.Members[0].Member.ID)
	assert.True(t, r.Members[0].FetchFailed)
	assert.True(t, r.Members[0].Available)
	assert.Empty(t, r.Members[0].Busy)

	assert.Equal(t, "m2", r.Members[1].Member.ID)
	assert.False(t, r.Members[1].FetchFailed)
	assert.False(t, r.Members[1].Available)
}

func TestRosterExposesBothGranularities(t *testing.T) {
	f := newFixture(t)
	start := base.Add(30 * time.Minute)
	// пересекает [10:30, 11:30), но начинается в другой час
	f.gateway.AddBusy("anna@staff.test", base.Add(time.Hour), base.Add(2*time.Hour))
	// не пересекает, но начинается в тот же час
	f.gateway.AddBusy("boris@staff.test", base, base.Add(30*time.Minute))

	r, err := newRoster(t, f).CheckInstant(context.Background(), start, "UTC")
	require.NoError(t, err)

	byID := make(map[string]MemberAvailability)
	for _, m := range r.Members {
		byID[m.Member.ID] = m
	}

	assert.False(t, byID["m1"].Available)
	assert.True(t, byID["m1"].FreeAtHour)
	assert.True(t, byID["m2"].Available)
	assert.False(t, byID["m2"].FreeAtHour)
	assert.Equal(t, []string{"m2", "m1"}, memberIDs(r))
}

func TestRosterSkipsInactiveMembersAndKeepsOrder(t *testing.T) {
	f := newFixture(t)

	r, err := newRoster(t, f).CheckInstant(context.Background(), base, "")
	require.NoError(t, err)

	assert.Equal(t, "UTC", r.Timezone)
	assert.Equal(t, []string{"m1", "m2"}, memberIDs(r))
	assert.Equal(t, base.Add(time.Hour), r.End)
	assert.Len(t, f.gateway.CallsOf("list"), 2)
}

func TestRosterCheckMembersRanksInactiveLast(t *testing.T) {
	f := newFixture(t)
	members := []model.StaffMember{
		*staff("m3", "vera@staff.test", false),
		*staff("m1", "anna@staff.test", true),
	}

	r := newRoster(t, f).CheckMembers(context.Background(), members, base, "UTC")
	assert.Equal(t, []string{"m1", "m3"}, memberIDs(r))
}

func TestRosterCheckSlotUnknown(t *testing.T) {
	f := newFixture(t)

	_, err := newRoster(t, f).CheckSlot(context.Background(), "nope", "UTC")
	assert.True(t, IsNotFound(err))
}

func TestRosterCancelledContextDegradesGracefully(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := newRoster(t, f).CheckInstant(ctx, base, "UTC")
	require.NoError(t, err)
	for _, m := range r.Members {
		assert.True(t, m.FetchFailed)
	}
}
