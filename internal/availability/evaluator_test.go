package availability

import (
	"testing"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/timezone"
	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func member(id string) model.StaffMember {
	return model.StaffMember{ID: id, DisplayName: id, IsActive: true}
}

func TestIsAvailableOverlap(t *testing.T) {
	slot := at(14, 0)

	tests := []struct {
		name string
		busy model.BusyInterval
		want bool
	}{
		{"ends exactly at slot start", model.BusyInterval{Start: at(13, 0), End: at(14, 0)}, true},
		{"starts exactly at slot end", model.BusyInterval{Start: at(15, 0), End: at(16, 0)}, true},
		{"same interval", model.BusyInterval{Start: at(14, 0), End: at(15, 0)}, false},
		{"overlaps start", model.BusyInterval{Start: at(13, 30), End: at(14, 1)}, false},
		{"overlaps end", model.BusyInterval{Start: at(14, 59), End: at(16, 0)}, false},
		{"contained", model.BusyInterval{Start: at(14, 15), End: at(14, 45)}, false},
		{"contains", model.BusyInterval{Start: at(9, 0), End: at(18, 0)}, false},
		{"far before", model.BusyInterval{Start: at(8, 0), End: at(9, 0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsAvailable(member("m"), slot, []model.BusyInterval{tt.busy}, 60*time.Minute)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAvailableMatchesOverlapFormula(t *testing.T) {
	slot := at(12, 0)
	slotEnd := slot.Add(DefaultSlotDuration)

	for startMin := -180; startMin <= 180; startMin += 15 {
		for length := 15; length <= 180; length += 15 {
			b0 := slot.Add(time.Duration(startMin) * time.Minute)
			b1 := b0.Add(time.Duration(length) * time.Minute)
			want := !(slot.Before(b1) && slotEnd.After(b0))

			got := IsAvailable(member("m"), slot, []model.BusyInterval{{Start: b0, End: b1}}, 0)
			assert.Equalf(t, want, got, "busy [%s, %s)", b0.Format("15:04"), b1.Format("15:04"))
		}
	}
}

func TestIsAvailableEdgeCases(t *testing.T) {
	assert.True(t, IsAvailable(member("m"), at(10, 0), nil, 0), "no busy intervals means available")

	inactive := member("m")
	inactive.IsActive = false
	assert.False(t, IsAvailable(inactive, at(10, 0), nil, 0))

	short := []model.BusyInterval{{Start: at(10, 30), End: at(11, 0)}}
	assert.True(t, IsAvailable(member("m"), at(10, 0), short, 30*time.Minute))
	assert.False(t, IsAvailable(member("m"), at(10, 0), short, 0))
}

func TestHourConflict(t *testing.T) {
	assert.True(t, HourConflict(at(14, 0), at(14, 59), "UTC"))
	assert.False(t, HourConflict(at(14, 0), at(15, 0), "UTC"))
	assert.False(t, HourConflict(at(14, 0), at(14, 0).AddDate(0, 0, 1), "UTC"))

	// 23:10 UTC и 00:10 UTC следующего дня - разные сутки в UTC, но в Токио это 08:10 и 09:10
	assert.False(t, HourConflict(at(23, 10), at(23, 10).Add(time.Hour), "Asia/Tokyo"))
	// В Нью-Йорке 03:30 и 04:10 UTC попадают в 23 часа и 0 часов разных дней
	late := time.Date(2025, 3, 11, 3, 30, 0, 0, time.UTC)
	assert.False(t, HourConflict(late, late.Add(40*time.Minute), "America/New_York"))
}

func TestIsFreeAtHourIsCoarserThanOverlap(t *testing.T) {
	// Событие 14:30-14:45 пересекает слот 14:00-15:00, и быстрый обзор это тоже видит
	busy := []model.BusyInterval{{Start: at(14, 30), End: at(14, 45), Coarse: true}}
	assert.False(t, IsFreeAtHour(member("m"), at(14, 0), busy, "UTC"))

	// Событие 13:30-14:30 пересекает слот, но начинается в другом часу
	busy = []model.BusyInterval{{Start: at(13, 30), End: at(14, 30)}}
	assert.True(t, IsFreeAtHour(member("m"), at(14, 0), busy, "UTC"))
	assert.False(t, IsAvailable(member("m"), at(14, 0), busy, 0))
}

func TestIsFreeAtHourCoarseIntervalBlocksWholeDay(t *testing.T) {
	moscow := timezone.Location("Europe/Moscow")
	dayStart := time.Date(2025, 3, 10, 0, 0, 0, 0, moscow)
	busy := []model.BusyInterval{{Start: dayStart, End: dayStart.AddDate(0, 0, 1), Coarse: true}}

	// 14:00 по Москве, событие на весь день начинается в полночь
	afternoon := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)
	assert.False(t, IsFreeAtHour(member("m"), afternoon, busy, "Europe/Moscow"))
	assert.False(t, IsAvailable(member("m"), afternoon, busy, 0))

	// Тот же интервал без флага виден только в часе своего начала
	exact := []model.BusyInterval{{Start: dayStart, End: dayStart.AddDate(0, 0, 1)}}
	assert.True(t, IsFreeAtHour(member("m"), afternoon, exact, "Europe/Moscow"))

	nextDay := afternoon.AddDate(0, 0, 1)
	assert.True(t, IsFreeAtHour(member("m"), nextDay, busy, "Europe/Moscow"))
}

func TestRankByAvailabilityIsStable(t *testing.T) {
	slot := at(14, 0)
	busy := []model.BusyInterval{{Start: at(14, 0), End: at(15, 0)}}

	members := []model.StaffMember{member("A"), member("B"), member("C"), member("D")}
	busyByMember := map[string][]model.BusyInterval{
		"A": busy,
		"D": busy,
	}

	ranked := RankByAvailability(members, slot, busyByMember, 0)

	ids := make([]string, 0, len(ranked))
	for _, m := range ranked {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"B", "C", "A", "D"}, ids)
	assert.Equal(t, "A", members[0].ID, "input must not be reordered")
}

func TestRankByAvailabilityKeepsEveryone(t *testing.T) {
	inactive := member("Z")
	inactive.IsActive = false
	members := []model.StaffMember{inactive, member("Y")}

	ranked := RankByAvailability(members, at(9, 0), nil, 0)
	assert.Len(t, ranked, 2)
	assert.Equal(t, "Y", ranked[0].ID)
	assert.Equal(t, "Z", ranked[1].ID)
}
