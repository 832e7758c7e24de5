package common

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/Freeeeeet/staff_scheduler/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

func group(id string, n int) *model.RequestGroup {
	slots := make([]*model.BookingSlot, 0, n)
	for i := range n {
		priority := i + 1
		slots = append(slots, &model.BookingSlot{
			ID:                 fmt.Sprintf("%s-s%d", id, priority),
			RequestGroupID:     id,
			RequesterName:      "Ivan <admin>",
			RequesterEmail:     "ivan@client.test",
			RequestedStartTime: at.Add(time.Duration(i) * time.Hour),
			PriorityLevel:      &priority,
			Status:             model.SlotStatusRequested,
		})
	}
	return model.NewRequestGroup(id, slots)
}

func allCallbackData(t *testing.T, rows [][]string) {
	t.Helper()
	for _, row := range rows {
		for _, data := range row {
			assert.LessOrEqual(t, len(data), 64, data)
		}
	}
}

func TestBuildPendingScreenPaginates(t *testing.T) {
	groups := make([]*model.RequestGroup, 0, 7)
	for i := range 7 {
		groups = append(groups, group(fmt.Sprintf("0f8fad5b-d9cb-469f-a165-70867728950%d", i), 2))
	}

	text, kb := BuildPendingScreen(groups, 1, 5, "Europe/Moscow")

	assert.Contains(t, text, "Ожидают решения: 7 заявок")
	assert.Contains(t, text, "#6")
	assert.NotContains(t, text, "#5 ")
	assert.Contains(t, text, "Ivan &lt;admin&gt;")
	assert.Contains(t, text, "13:00 (MSK)")

	var data [][]string
	for _, row := range kb.InlineKeyboard {
		var r []string
		for _, b := range row {
			r = append(r, b.CallbackData)
		}
		data = append(data, r)
	}
	allCallbackData(t, data)

	last := kb.InlineKeyboard[len(kb.InlineKeyboard)-1]
	assert.Equal(t, PendingPage+"0", last[0].CallbackData)
	assert.True(t, strings.HasPrefix(kb.InlineKeyboard[0][0].CallbackData, ShowRoster))
}

func TestBuildPendingScreenEmpty(t *testing.T) {
	text, kb := BuildPendingScreen(nil, 0, 5, "UTC")
	assert.Contains(t, text, "Нет заявок")
	assert.Nil(t, kb)
}

func TestBuildRosterScreen(t *testing.T) {
	roster := &service.Roster{
		SlotID:   "s1",
		Start:    at,
		End:      at.Add(time.Hour),
		Timezone: "UTC",
		Members: []service.MemberAvailability{
			{Member: model.StaffMember{ID: "m2", DisplayName: "Boris"}, Available: true, FreeAtHour: true},
			{Member: model.StaffMember{ID: "m3", DisplayName: "Vera"}, Available: true, FetchFailed: true},
			{Member: model.StaffMember{ID: "m1", DisplayName: "Anna"}, Busy: []model.BusyInterval{
				{Start: at.Add(30 * time.Minute), End: at.Add(90 * time.Minute)},
				{Start: at.Add(5 * time.Hour), End: at.Add(6 * time.Hour)},
			}},
		},
	}

	text, kb := BuildRosterScreen(roster)

	assert.Contains(t, text, "🟢 Boris")
	assert.Contains(t, text, "⚠️ Vera (календарь недоступен)")
	assert.Contains(t, text, "🔴 Anna (занят 10:30-11:30)")
	require.Len(t, kb.InlineKeyboard, 4)
	assert.Equal(t, AssignMember+"0", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, AssignMember+"2", kb.InlineKeyboard[2][0].CallbackData)
}

func TestBuildRosterScreenWithoutSlotHasNoAssignButtons(t *testing.T) {
	roster := &service.Roster{
		Start: at, End: at.Add(time.Hour), Timezone: "UTC",
		Members: []service.MemberAvailability{{Member: model.StaffMember{ID: "m1", DisplayName: "Anna"}, Available: true}},
	}

	_, kb := BuildRosterScreen(roster)
	require.Len(t, kb.InlineKeyboard, 1)
	assert.Equal(t, PendingPage+"0", kb.InlineKeyboard[0][0].CallbackData)
}

func TestBuildAssignedScreenHasMeetingLink(t *testing.T) {
	end := at.Add(time.Hour)
	res := &service.AssignResult{
		Slot: &model.BookingSlot{
			ID: "s1", RequesterEmail: "ivan@client.test",
			FinalStartTime: &at, FinalEndTime: &end,
		},
		Member:      &model.StaffMember{DisplayName: "Anna"},
		MeetingLink: "https://meet.example.com/evt-1",
		Rejected:    []*model.BookingSlot{{ID: "s2"}},
	}

	text, kb := BuildAssignedScreen(res, "UTC")
	assert.Contains(t, text, "Anna")
	assert.Contains(t, text, "10:00-11:00")
	assert.Contains(t, text, "Отклонено вариантов: 1")
	assert.Equal(t, "https://meet.example.com/evt-1", kb.InlineKeyboard[0][0].URL)
}

func TestBuildSyncScreens(t *testing.T) {
	ws, err := wizard.Transition(wizard.State{}, wizard.Start{
		Timezones: []string{"UTC", "Europe/Moscow"},
		Members: []model.StaffMember{
			{ID: "m1", DisplayName: "Anna", IsActive: true},
			{ID: "m2", DisplayName: "Boris"},
		},
	})
	require.NoError(t, err)

	_, kb := BuildSyncTimezoneScreen(ws)
	assert.Equal(t, SyncTimezone+"1", kb.InlineKeyboard[0][1].CallbackData)

	ws, err = wizard.Transition(ws, wizard.ChooseTimezone{Name: "Europe/Moscow"})
	require.NoError(t, err)
	text, kb := BuildSyncMembersScreen(ws)
	assert.Contains(t, text, "1 из 2")
	assert.Equal(t, "✅ Anna", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "⬜ Boris", kb.InlineKeyboard[1][0].Text)

	ws, err = wizard.Transition(ws, wizard.ConfirmMembers{})
	require.NoError(t, err)
	ws, err = wizard.Transition(ws, wizard.AvailabilityLoaded{Free: map[string]bool{"m1": false}, CheckedAt: at})
	require.NoError(t, err)

	text, _ = BuildSyncReviewScreen(ws)
	assert.Contains(t, text, "🔴 Anna")
	assert.Contains(t, text, "MSK")
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "❌ Сотрудник не найден", ErrorMessage(&service.NotFoundError{Entity: "member", ID: "x"}))
	assert.Equal(t, "❌ Заявка не найдена", ErrorMessage(&service.NotFoundError{Entity: "booking", ID: "x"}))
	assert.Equal(t, "❌ Заявка уже закрыта, действие недоступно", ErrorMessage(fmt.Errorf("x: %w", service.ErrInvalidTransition)))
	assert.Equal(t, "❌ Произошла ошибка", ErrorMessage(fmt.Errorf("boom")))
}

func TestParseIndex(t *testing.T) {
	idx, err := ParseIndex("assign:3", AssignMember)
	require.NoError(t, err)
	assert.Equal(t, 3, idx)

	_, err = ParseIndex("assign:x", AssignMember)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ParseArg("roster:", ShowRoster)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
