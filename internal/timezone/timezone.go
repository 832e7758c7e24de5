// Package timezone переводит моменты времени в локальные часы произвольной
// таймзоны и обратно. Функции пакета никогда не возвращают ошибок:
// неизвестная зона заменяется системной.
package timezone

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // образ без системной tzdata
)

// FallbackLabel метка для зон, которые не удалось разрешить
const FallbackLabel = "GMT"

// WallClock локальное время в выбранной зоне
type WallClock struct {
	Hour    int
	Minute  int
	DateKey string // "день-месяц-год", ключ для сравнения календарных дней
}

// Location разрешает имя зоны, при ошибке возвращает системную зону
func Location(name string) *time.Location {
	loc, ok := lookup(name)
	if !ok {
		return time.Local
	}
	return loc
}

// Valid сообщает что имя зоны разрешается
func Valid(name string) bool {
	_, ok := lookup(name)
	return ok
}

func lookup(name string) (*time.Location, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, false
	}
	return loc, true
}

// WallClockAt проецирует момент времени в зону tzName
func WallClockAt(instant time.Time, tzName string) WallClock {
	local := instant.In(Location(tzName))
	return WallClock{
		Hour:    local.Hour(),
		Minute:  local.Minute(),
		DateKey: DateKey(local),
	}
}

// DateKey строит ключ дня без ведущих нулей, например "10-3-2025"
func DateKey(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Day(), int(t.Month()), t.Year())
}

// SameDay сравнивает календарные дни двух моментов в зоне tzName
func SameDay(a, b time.Time, tzName string) bool {
	return WallClockAt(a, tzName).DateKey == WallClockAt(b, tzName).DateKey
}

// FromWallClock собирает момент времени из локальных компонент зоны tzName
func FromWallClock(year int, month time.Month, day, hour, minute int, tzName string) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, Location(tzName))
}

// DayBounds возвращает локальные сутки [start, end), содержащие instant
func DayBounds(instant time.Time, tzName string) (time.Time, time.Time) {
	local := instant.In(Location(tzName))
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	return start, start.AddDate(0, 0, 1)
}

// OffsetLabel короткое обозначение зоны для отображения
func OffsetLabel(tzName string) string {
	return OffsetLabelAt(tzName, time.Now())
}

// OffsetLabelAt как OffsetLabel, но для конкретного момента (летнее время)
func OffsetLabelAt(tzName string, at time.Time) string {
	loc, ok := lookup(tzName)
	if !ok {
		return FallbackLabel
	}

	abbr, _ := at.In(loc).Zone()
	switch {
	case abbr == "":
		return FallbackLabel
	case abbr == "UTC":
		return abbr
	case strings.HasPrefix(abbr, "+") || strings.HasPrefix(abbr, "-"):
		// Для многих зон tzdata хранит только числовое смещение
		return FallbackLabel + abbr
	}
	return abbr
}
