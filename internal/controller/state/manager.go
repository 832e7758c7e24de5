package state

import (
	"slices"
	"sync"

	"github.com/Freeeeeet/staff_scheduler/internal/wizard"
)

// Manager хранит состояния чатов в памяти процесса
type Manager struct {
	mu    sync.RWMutex
	chats map[int64]*ChatData // chatID -> ChatData
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		chats: make(map[int64]*ChatData),
	}
}

// GetState получает текущий диалог чата
func (sm *Manager) GetState(chatID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if data, exists := sm.chats[chatID]; exists {
		return data.State
	}
	return StateNone
}

// Wizard возвращает состояние мастера синхронизации
func (sm *Manager) Wizard(chatID int64) wizard.State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if data, exists := sm.chats[chatID]; exists {
		return data.Wizard
	}
	return wizard.State{}
}

// SetWizard сохраняет состояние мастера. Завершённый мастер снимает диалог.
func (sm *Manager) SetWizard(chatID int64, ws wizard.State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	data := sm.chat(chatID)
	data.Wizard = ws
	if ws.Step.Finished() {
		data.State = StateNone
		data.Wizard = wizard.State{}
		return
	}
	data.State = StateSync
}

// Roster возвращает копию последнего ростера
func (sm *Manager) Roster(chatID int64) (RosterContext, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	data, exists := sm.chats[chatID]
	if !exists || data.Roster == nil {
		return RosterContext{}, false
	}
	rc := *data.Roster
	rc.MemberIDs = slices.Clone(rc.MemberIDs)
	return rc, true
}

// SetRoster запоминает показанный ростер
func (sm *Manager) SetRoster(chatID int64, rc RosterContext) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	rc.MemberIDs = slices.Clone(rc.MemberIDs)
	sm.chat(chatID).Roster = &rc
}

// AwaitCancelReason переводит чат в ввод причины отмены группы
func (sm *Manager) AwaitCancelReason(chatID int64, groupID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	data := sm.chat(chatID)
	data.State = StateCancelReason
	data.CancelTarget = groupID
}

// CancelTarget группа, для которой ожидается причина
func (sm *Manager) CancelTarget(chatID int64) string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if data, exists := sm.chats[chatID]; exists {
		return data.CancelTarget
	}
	return ""
}

// ClearState очищает диалог, ростер остаётся
func (sm *Manager) ClearState(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	data, exists := sm.chats[chatID]
	if !exists {
		return
	}
	data.State = StateNone
	data.Wizard = wizard.State{}
	data.CancelTarget = ""
	if data.Roster == nil {
		delete(sm.chats, chatID)
	}
}

func (sm *Manager) chat(chatID int64) *ChatData {
	data, exists := sm.chats[chatID]
	if !exists {
		data = &ChatData{}
		sm.chats[chatID] = data
	}
	return data
}
