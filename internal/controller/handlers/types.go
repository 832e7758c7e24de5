package handlers

import (
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/state"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	requestService    *service.RequestService
	schedulingService *service.SchedulingService
	rosterService     *service.RosterService
	directoryService  *service.DirectoryService
	stateManager      *state.Manager
	settings          callbacktypes.Settings
	logger            *zap.Logger
	now               func() time.Time
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	requestService *service.RequestService,
	schedulingService *service.SchedulingService,
	rosterService *service.RosterService,
	directoryService *service.DirectoryService,
	stateManager *state.Manager,
	settings callbacktypes.Settings,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		requestService:    requestService,
		schedulingService: schedulingService,
		rosterService:     rosterService,
		directoryService:  directoryService,
		stateManager:      stateManager,
		settings:          settings,
		logger:            logger,
		now:               time.Now,
	}
}
