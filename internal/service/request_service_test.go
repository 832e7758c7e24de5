package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newRequests(t *testing.T, slots *memSlots) *RequestService {
	t.Helper()
	svc := NewRequestService(slots, zaptest.NewLogger(t))
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	svc.now = func() time.Time { return base }
	return svc
}

func TestSubmitCreatesPrioritizedGroup(t *testing.T) {
	slots := newMemSlots()
	svc := newRequests(t, slots)

	group, err := svc.Submit(context.Background(), SubmitRequest{
		RequesterName:  " Ivan ",
		RequesterEmail: "MAILTO:Ivan@Client.test",
		Title:          "Intro call",
		Times:          []time.Time{base.Add(2 * time.Hour), base},
	})
	require.NoError(t, err)

	assert.Equal(t, "id-1", group.ID)
	assert.Equal(t, model.GroupStatusRequested, group.Status)
	require.Len(t, group.Slots, 2)

	for i, slot := range group.Slots {
		assert.Equal(t, "id-1", slot.RequestGroupID)
		assert.Equal(t, i+1, slot.Priority())
		assert.Equal(t, "ivan@client.test", slot.RequesterEmail)
		assert.Equal(t, "Ivan", slot.RequesterName)
		assert.Equal(t, model.SlotStatusRequested, slot.Status)
	}
	assert.Equal(t, base.Add(2*time.Hour), group.Slots[0].RequestedStartTime)
	assert.NotNil(t, slots.get("id-3"))
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name string
		req  SubmitRequest
	}{
		{"no times", SubmitRequest{RequesterEmail: "a@b.test"}},
		{"no email", SubmitRequest{Times: []time.Time{base}}},
		{"not an email", SubmitRequest{RequesterEmail: "ivan", Times: []time.Time{base}}},
		{"zero time", SubmitRequest{RequesterEmail: "a@b.test", Times: []time.Time{{}}}},
		{"duplicate time", SubmitRequest{RequesterEmail: "a@b.test", Times: []time.Time{base, base.In(time.FixedZone("X", 3600))}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := newMemSlots()
			_, err := newRequests(t, slots).Submit(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Zero(t, slots.upserts)
		})
	}
}

func TestListOpenGroups(t *testing.T) {
	scheduled := requestedSlot("b1", "gb", 1, base)
	scheduled.Status = model.SlotStatusScheduled

	unprioritized := requestedSlot("a0", "ga", 1, base.Add(-time.Hour))
	unprioritized.PriorityLevel = nil

	slots := newMemSlots(
		unprioritized,
		requestedSlot("a2", "ga", 2, base),
		requestedSlot("a1", "ga", 1, base.Add(time.Hour)),
		scheduled,
		requestedSlot("b2", "gb", 2, base),
		requestedSlot("c1", "gc", 1, base),
	)

	groups, err := newRequests(t, slots).ListOpenGroups(context.Background())
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, "ga", groups[0].ID)
	assert.Equal(t, "gc", groups[1].ID)

	var order []string
	for _, slot := range groups[0].Slots {
		order = append(order, slot.ID)
	}
	assert.Equal(t, []string{"a1", "a2", "a0"}, order)
}

func TestGetGroupBySlotID(t *testing.T) {
	slots := newMemSlots(
		requestedSlot("s2", "g1", 2, base),
		requestedSlot("s1", "g1", 1, base),
	)
	svc := newRequests(t, slots)

	group, err := svc.GetGroup(context.Background(), "s2")
	require.NoError(t, err)
	assert.Equal(t, "g1", group.ID)
	require.Len(t, group.Slots, 1)

	group, err = svc.GetGroup(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "s1", group.Slots[0].ID)

	_, err = svc.GetGroup(context.Background(), "none")
	assert.True(t, IsNotFound(err))
}
