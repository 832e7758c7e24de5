package state

import (
	"testing"

	"github.com/Freeeeeet/staff_scheduler/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerWizardLifecycle(t *testing.T) {
	sm := NewManager()
	assert.Equal(t, StateNone, sm.GetState(1))

	ws, err := wizard.Transition(wizard.State{}, wizard.Start{Timezones: []string{"UTC"}})
	require.NoError(t, err)
	sm.SetWizard(1, ws)

	assert.Equal(t, StateSync, sm.GetState(1))
	assert.Equal(t, wizard.StepTimezone, sm.Wizard(1).Step)

	ws, err = wizard.Transition(ws, wizard.Cancel{})
	require.NoError(t, err)
	sm.SetWizard(1, ws)

	assert.Equal(t, StateNone, sm.GetState(1))
	assert.Equal(t, wizard.StepIdle, sm.Wizard(1).Step)
}

func TestManagerRosterIsCopied(t *testing.T) {
	sm := NewManager()
	ids := []string{"m1", "m2"}
	sm.SetRoster(7, RosterContext{SlotID: "s1", MemberIDs: ids})
	ids[0] = "changed"

	rc, ok := sm.Roster(7)
	require.True(t, ok)
	id, ok := rc.MemberAt(0)
	require.True(t, ok)
	assert.Equal(t, "m1", id)

	_, ok = rc.MemberAt(2)
	assert.False(t, ok)

	_, ok = sm.Roster(8)
	assert.False(t, ok)
}

func TestManagerClearKeepsRoster(t *testing.T) {
	sm := NewManager()
	sm.SetRoster(3, RosterContext{SlotID: "s1"})
	sm.AwaitCancelReason(3, "g1")
	assert.Equal(t, StateCancelReason, sm.GetState(3))
	assert.Equal(t, "g1", sm.CancelTarget(3))

	sm.ClearState(3)
	assert.Equal(t, StateNone, sm.GetState(3))
	assert.Empty(t, sm.CancelTarget(3))

	_, ok := sm.Roster(3)
	assert.True(t, ok)
}
