package state

import (
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/wizard"
)

// UserState текущий диалог в чате администратора
type UserState string

const (
	StateNone UserState = "" // Нет активного диалога

	// Мастер синхронизации справочника
	StateSync UserState = "sync"

	// Ввод причины отмены группы
	StateCancelReason UserState = "cancel_reason"
)

// RosterContext последний показанный ростер. Кнопки ссылаются на сотрудников
// по индексу, полные id не помещаются в callback data.
type RosterContext struct {
	SlotID    string
	Start     time.Time
	Timezone  string
	MemberIDs []string
}

// MemberAt возвращает id сотрудника по индексу кнопки
func (r RosterContext) MemberAt(idx int) (string, bool) {
	if idx < 0 || idx >= len(r.MemberIDs) {
		return "", false
	}
	return r.MemberIDs[idx], true
}

// ChatData хранит состояние чата между сообщениями
type ChatData struct {
	State  UserState
	Wizard wizard.State
	Roster *RosterContext
	// CancelTarget группа, для которой ожидается причина отмены
	CancelTarget string
}
