package wizard

import (
	"testing"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func directory() []model.StaffMember {
	return []model.StaffMember{
		{ID: "m1", DisplayName: "Anna", IsActive: true},
		{ID: "m2", DisplayName: "Boris", IsActive: false},
		{ID: "m3", DisplayName: "Vera", IsActive: true},
	}
}

func started(t *testing.T) State {
	t.Helper()
	state, err := Transition(State{}, Start{
		Timezones: []string{"Europe/Moscow", "UTC"},
		Members:   directory(),
	})
	require.NoError(t, err)
	return state
}

func TestStartPreselectsActiveMembers(t *testing.T) {
	state := started(t)

	assert.Equal(t, StepTimezone, state.Step)
	assert.Equal(t, map[string]bool{"m1": true, "m3": true}, state.Selected)
}

func TestFullFlowProducesPlan(t *testing.T) {
	state := started(t)

	steps := []Input{
		ChooseTimezone{Name: "Europe/Moscow"},
		ToggleMember{ID: "m2"},
		ToggleMember{ID: "m3"},
		ConfirmMembers{},
		AvailabilityLoaded{Free: map[string]bool{"m1": true, "m2": false}, CheckedAt: time.Unix(100, 0)},
		Confirm{},
	}
	for _, in := range steps {
		var err error
		state, err = Transition(state, in)
		require.NoError(t, err, "%T", in)
	}

	assert.Equal(t, StepDone, state.Step)
	assert.Equal(t, Plan{
		Timezone:   "Europe/Moscow",
		Activate:   []string{"m1", "m2"},
		Deactivate: []string{"m3"},
	}, state.Plan())
	assert.Len(t, state.SelectedMembers(), 2)
}

func TestTransitionDoesNotMutateInput(t *testing.T) {
	state, err := Transition(started(t), ChooseTimezone{Name: "UTC"})
	require.NoError(t, err)

	next, err := Transition(state, ToggleMember{ID: "m1"})
	require.NoError(t, err)

	assert.True(t, state.Selected["m1"])
	assert.False(t, next.Selected["m1"])
}

func TestTransitionErrors(t *testing.T) {
	atMembers, err := Transition(started(t), ChooseTimezone{Name: "UTC"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		state State
		input Input
		want  error
	}{
		{"timezone not offered", started(t), ChooseTimezone{Name: "Asia/Tokyo"}, ErrUnknownTimezone},
		{"toggle before timezone", started(t), ToggleMember{ID: "m1"}, ErrUnexpectedInput},
		{"unknown member", atMembers, ToggleMember{ID: "nope"}, ErrUnknownMember},
		{"confirm at members", atMembers, Confirm{}, ErrUnexpectedInput},
		{"back at first step", started(t), Back{}, ErrUnexpectedInput},
		{"cancel when idle", State{}, Cancel{}, ErrUnexpectedInput},
		{"restart while running", atMembers, Start{}, ErrUnexpectedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Transition(tt.state, tt.input)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.state.Step, next.Step)
		})
	}
}

func TestConfirmMembersRequiresSelection(t *testing.T) {
	state, err := Transition(started(t), ChooseTimezone{Name: "UTC"})
	require.NoError(t, err)
	for _, id := range []string{"m1", "m3"} {
		state, err = Transition(state, ToggleMember{ID: id})
		require.NoError(t, err)
	}

	_, err = Transition(state, ConfirmMembers{})
	assert.ErrorIs(t, err, ErrNothingSelected)
}

func TestBackFromReviewDropsAvailability(t *testing.T) {
	state := started(t)
	var err error
	for _, in := range []Input{
		ChooseTimezone{Name: "UTC"},
		ConfirmMembers{},
		AvailabilityLoaded{Free: map[string]bool{"m1": true}},
		Back{},
	} {
		state, err = Transition(state, in)
		require.NoError(t, err)
	}

	assert.Equal(t, StepMembers, state.Step)
	assert.Nil(t, state.Availability)
}

func TestCancelAndRestart(t *testing.T) {
	state, err := Transition(started(t), Cancel{})
	require.NoError(t, err)
	assert.Equal(t, StepCancelled, state.Step)
	assert.True(t, state.Step.Finished())

	state, err = Transition(state, Start{Members: directory()})
	require.NoError(t, err)
	assert.Equal(t, StepTimezone, state.Step)
}

func TestEmptyOfferAcceptsAnyTimezone(t *testing.T) {
	state, err := Transition(State{}, Start{Members: directory()})
	require.NoError(t, err)

	state, err = Transition(state, ChooseTimezone{Name: "Asia/Tokyo"})
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", state.Timezone)
}
