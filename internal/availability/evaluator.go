// Package availability определяет свободен ли сотрудник в заданный слот.
//
// Поддерживаются две гранулярности: точное пересечение интервалов для
// сетки календаря и грубая проверка "тот же день и тот же час" для
// быстрого обзора ростера по старым данным.
package availability

import (
	"slices"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/timezone"
)

// DefaultSlotDuration длительность слота по умолчанию
const DefaultSlotDuration = 60 * time.Minute

// Overlaps проверяет строгое пересечение полуинтервалов [aStart, aEnd) и [bStart, bEnd).
// Касание концами пересечением не считается.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// IsAvailable проверяет что у сотрудника нет занятых интервалов,
// пересекающих [start, start+duration). Неактивный сотрудник всегда занят.
func IsAvailable(member model.StaffMember, start time.Time, busy []model.BusyInterval, duration time.Duration) bool {
	if !member.IsActive {
		return false
	}
	if duration <= 0 {
		duration = DefaultSlotDuration
	}

	end := start.Add(duration)
	for _, interval := range busy {
		if Overlaps(start, end, interval.Start, interval.End) {
			return false
		}
	}
	return true
}

// HourConflict грубая проверка: два момента конфликтуют, если совпадают
// и календарный день, и час в зоне tzName
func HourConflict(a, b time.Time, tzName string) bool {
	wa := timezone.WallClockAt(a, tzName)
	wb := timezone.WallClockAt(b, tzName)
	return wa.DateKey == wb.DateKey && wa.Hour == wb.Hour
}

// IsFreeAtHour быстрый обзор: сотрудник занят, если какое-либо его событие
// начинается в тот же локальный час того же дня, что и кандидат.
// Грубый интервал (весь день) занимает каждый час, который он покрывает.
func IsFreeAtHour(member model.StaffMember, candidate time.Time, busy []model.BusyInterval, tzName string) bool {
	if !member.IsActive {
		return false
	}
	for _, interval := range busy {
		if interval.Coarse {
			from, to := hourBucket(candidate, tzName)
			if Overlaps(from, to, interval.Start, interval.End) {
				return false
			}
			continue
		}
		if HourConflict(candidate, interval.Start, tzName) {
			return false
		}
	}
	return true
}

// hourBucket локальный час [hh:00, hh:00+1h), в который попадает момент
func hourBucket(instant time.Time, tzName string) (time.Time, time.Time) {
	loc := timezone.Location(tzName)
	local := instant.In(loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, loc)
	return from, from.Add(time.Hour)
}

// RankByAvailability стабильно упорядочивает сотрудников: сначала свободные,
// потом занятые. Внутри каждой части сохраняется исходный порядок.
func RankByAvailability(members []model.StaffMember, start time.Time, busyByMember map[string][]model.BusyInterval, duration time.Duration) []model.StaffMember {
	ranked := slices.Clone(members)
	slices.SortStableFunc(ranked, func(a, b model.StaffMember) int {
		return rank(IsAvailable(a, start, busyByMember[a.ID], duration)) -
			rank(IsAvailable(b, start, busyByMember[b.ID], duration))
	})
	return ranked
}

func rank(available bool) int {
	if available {
		return 0
	}
	return 1
}
