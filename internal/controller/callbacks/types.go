package callbacks

import (
	"context"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler обертка для callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
}

// StateManager интерфейс для управления состоянием чатов
type StateManager = callbacktypes.StateManager

// Settings параметры отображения
type Settings = callbacktypes.Settings

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(
	requestService *service.RequestService,
	schedulingService *service.SchedulingService,
	rosterService *service.RosterService,
	directoryService *service.DirectoryService,
	stateManager StateManager,
	settings Settings,
	logger *zap.Logger,
) *Handler {
	inner := &callbacktypes.Handler{
		RequestService:    requestService,
		SchedulingService: schedulingService,
		RosterService:     rosterService,
		DirectoryService:  directoryService,
		StateManager:      stateManager,
		Settings:          settings,
		Logger:            logger,
		Now:               time.Now,
	}
	return &Handler{Handler: inner}
}

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery

	h.Logger.Info("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
	)

	Route(ctx, b, callback, h.Handler)
}
