package formatting

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/timezone"
)

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// FormatTime форматирует только время
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatDateTimeIn форматирует момент в зоне tzName с меткой зоны:
// "Пн 10.03.2025 13:00 (MSK)"
func FormatDateTimeIn(t time.Time, tzName string) string {
	local := t.In(timezone.Location(tzName))
	return fmt.Sprintf("%s %s (%s)",
		GetWeekdayShortName(int(local.Weekday())),
		FormatDateTime(local),
		timezone.OffsetLabelAt(tzName, t))
}

// FormatTimeRangeIn форматирует интервал в зоне tzName: "13:00-14:00"
func FormatTimeRangeIn(start, end time.Time, tzName string) string {
	loc := timezone.Location(tzName)
	return fmt.Sprintf("%s-%s", FormatTime(start.In(loc)), FormatTime(end.In(loc)))
}

// FormatDuration форматирует длительность
func FormatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

// GetWeekdayShortName возвращает краткое название дня недели на русском
func GetWeekdayShortName(weekday int) string {
	names := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	if weekday >= 0 && weekday < len(names) {
		return names[weekday]
	}
	return "?"
}
