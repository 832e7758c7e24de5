package callbacktypes

import (
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/controller/state"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/Freeeeeet/staff_scheduler/internal/wizard"
	"go.uber.org/zap"
)

// StateManager интерфейс для управления состоянием чатов
type StateManager interface {
	GetState(chatID int64) state.UserState
	ClearState(chatID int64)
	Wizard(chatID int64) wizard.State
	SetWizard(chatID int64, ws wizard.State)
	Roster(chatID int64) (state.RosterContext, bool)
	SetRoster(chatID int64, rc state.RosterContext)
	AwaitCancelReason(chatID int64, groupID string)
}

// Settings параметры отображения и мастера синхронизации
type Settings struct {
	DefaultTimezone string
	SyncTimezones   []string
	PageSize        int
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	RequestService    *service.RequestService
	SchedulingService *service.SchedulingService
	RosterService     *service.RosterService
	DirectoryService  *service.DirectoryService
	StateManager      StateManager
	Settings          Settings
	Logger            *zap.Logger
	Now               func() time.Time
}
