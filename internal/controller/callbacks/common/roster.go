package common

import (
	"github.com/Freeeeeet/staff_scheduler/internal/controller/state"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
)

// RosterContextOf запоминает порядок сотрудников ростера для кнопок назначения
func RosterContextOf(roster *service.Roster) state.RosterContext {
	ids := make([]string, 0, len(roster.Members))
	for _, m := range roster.Members {
		ids = append(ids, m.Member.ID)
	}
	return state.RosterContext{
		SlotID:    roster.SlotID,
		Start:     roster.Start,
		Timezone:  roster.Timezone,
		MemberIDs: ids,
	}
}
