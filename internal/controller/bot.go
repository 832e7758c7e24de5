package controller

import (
	"context"

	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/state"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Services сервисы, которые использует бот
type Services struct {
	Requests   *service.RequestService
	Scheduling *service.SchedulingService
	Roster     *service.RosterService
	Directory  *service.DirectoryService
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	services Services,
	settings callbacks.Settings,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		services.Requests,
		services.Scheduling,
		services.Roster,
		services.Directory,
		stateManager,
		settings,
		logger,
	)

	// Создаём callback handler с зависимостями
	callbackHandler := callbacks.NewHandler(
		services.Requests,
		services.Scheduling,
		services.Roster,
		services.Directory,
		stateManager,
		settings,
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/pending", bot.MatchTypeExact, c.handlers.HandlePending)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/sync", bot.MatchTypeExact, c.handlers.HandleSync)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/conclude", bot.MatchTypeExact, c.handlers.HandleConclude)

	// Команды с аргументами
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/roster", bot.MatchTypePrefix, c.handlers.HandleRoster)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypePrefix, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/edit", bot.MatchTypePrefix, c.handlers.HandleEdit)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "pending", Description: "📋 Заявки, ожидающие решения"},
		{Command: "roster", Description: "👥 Свободные сотрудники на время"},
		{Command: "cancel", Description: "🚫 Отменить заявку или диалог"},
		{Command: "edit", Description: "✏️ Изменить назначенную встречу"},
		{Command: "sync", Description: "🔄 Обновить справочник сотрудников"},
		{Command: "conclude", Description: "✔️ Закрыть прошедшие встречи"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
