package model

import "time"

// BusyInterval занятый промежуток [Start, End) в календаре сотрудника.
// Coarse - событие на весь день, у которого известны только даты.
// В быстром обзоре оно занимает каждый покрытый час.
type BusyInterval struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Coarse bool      `json:"coarse"`
}
