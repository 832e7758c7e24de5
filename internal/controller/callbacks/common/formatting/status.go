package formatting

import "github.com/Freeeeeet/staff_scheduler/internal/model"

// StatusDisplay представляет отображение статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetSlotStatusDisplay возвращает emoji и текст для статуса слота
func GetSlotStatusDisplay(status model.SlotStatus) StatusDisplay {
	displays := map[model.SlotStatus]StatusDisplay{
		model.SlotStatusRequested: {"⏳", "Ожидает"},
		model.SlotStatusScheduled: {"✅", "Назначена"},
		model.SlotStatusConcluded: {"✔️", "Проведена"},
		model.SlotStatusRejected:  {"🚫", "Отклонена"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetGroupStatusDisplay возвращает emoji и текст для статуса заявки
func GetGroupStatusDisplay(status model.GroupStatus) StatusDisplay {
	return GetSlotStatusDisplay(model.SlotStatus(status))
}

// AvailabilityEmoji отметка занятости сотрудника в ростере
func AvailabilityEmoji(available, fetchFailed bool) string {
	switch {
	case fetchFailed:
		return "⚠️"
	case available:
		return "🟢"
	default:
		return "🔴"
	}
}
