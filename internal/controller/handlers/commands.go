package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/state"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/Freeeeeet/staff_scheduler/internal/wizard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 <b>Справка по командам</b>\n\n" +
	"/pending - Заявки, ожидающие решения\n" +
	"/roster &lt;slot_id&gt; - Кто из сотрудников свободен на время слота\n" +
	"/roster 2025-03-10 13:00 - Ростер на произвольное время\n" +
	"/cancel &lt;id&gt; [причина] - Отменить заявку или слот\n" +
	"/edit &lt;slot_id&gt; &lt;заголовок&gt; | &lt;описание&gt; [| &lt;email сотрудника&gt;] - Изменить встречу\n" +
	"/sync - Обновить справочник сотрудников\n" +
	"/conclude - Закрыть прошедшие встречи\n" +
	"/cancel - Выйти из текущего диалога\n" +
	"/help - Показать эту справку"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	name := "администратор"
	if update.Message.From != nil && update.Message.From.FirstName != "" {
		name = update.Message.From.FirstName
	}

	text := fmt.Sprintf("👋 Привет, %s!\n\n"+
		"Здесь собираются заявки на встречи. Выберите вариант времени, "+
		"посмотрите, кто из сотрудников свободен, и назначьте встречу в один клик.\n\n%s",
		html.EscapeString(name), helpText)

	h.sendHTML(ctx, b, update.Message.Chat.ID, text, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendHTML(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandlePending показывает первую страницу очереди заявок
func (h *Handlers) HandlePending(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	groups, err := h.requestService.ListOpenGroups(ctx)
	if err != nil {
		h.logger.Error("Failed to list open groups", zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	text, kb := common.BuildPendingScreen(groups, 0, h.settings.PageSize, h.settings.DefaultTimezone)
	h.sendHTML(ctx, b, chatID, text, kb)
}

// HandleRoster показывает ростер для слота или произвольного момента
func (h *Handlers) HandleRoster(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	tz := h.settings.DefaultTimezone

	slotID, at, err := parseRosterTarget(commandArgs(update.Message.Text), tz)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Использование: /roster <slot_id> или /roster 2025-03-10 13:00")
		return
	}

	var roster *service.Roster
	if slotID != "" {
		roster, err = h.rosterService.CheckSlot(ctx, slotID, tz)
	} else {
		roster, err = h.rosterService.CheckInstant(ctx, at, tz)
	}
	if err != nil {
		h.logger.Error("Failed to build roster",
			zap.String("slot_id", slotID),
			zap.Time("at", at),
			zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	h.stateManager.SetRoster(chatID, common.RosterContextOf(roster))

	text, kb := common.BuildRosterScreen(roster)
	h.sendHTML(ctx, b, chatID, text, kb)
}

// HandleCancel без аргументов выходит из диалога, с аргументами отменяет заявку
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if args == "" {
		if h.stateManager.GetState(chatID) == state.StateNone {
			h.sendError(ctx, b, chatID, "❌ Нет активных операций для отмены.")
			return
		}
		h.stateManager.ClearState(chatID)
		h.sendHTML(ctx, b, chatID, "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.", nil)
		return
	}

	id, reason := parseCancelArgs(args)
	h.cancelBooking(ctx, b, chatID, id, reason)
}

// HandleEdit меняет заголовок, описание или сотрудника назначенной встречи
func (h *Handlers) HandleEdit(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args, err := parseEditArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Использование: /edit <slot_id> <заголовок> | <описание> [| <email сотрудника>]")
		return
	}

	var memberID string
	if args.Member != "" {
		member, err := h.directoryService.FindByIdentity(ctx, args.Member)
		if err != nil {
			h.sendError(ctx, b, chatID, common.ErrorMessage(err))
			return
		}
		memberID = member.ID
	}

	slot, err := h.schedulingService.Edit(ctx, args.SlotID, args.Title, args.Description, memberID)
	if err != nil {
		h.logger.Error("Failed to edit slot",
			zap.String("slot_id", args.SlotID),
			zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	text := fmt.Sprintf("✏️ Встреча обновлена\n\n📝 %s", html.EscapeString(slot.Title))
	if slot.Description != "" {
		text += "\n" + html.EscapeString(slot.Description)
	}
	if slot.MeetingLink != nil && *slot.MeetingLink != "" {
		text += fmt.Sprintf("\n🎥 %s", html.EscapeString(*slot.MeetingLink))
	}
	h.sendHTML(ctx, b, chatID, text, nil)
}

// HandleSync запускает мастер синхронизации справочника
func (h *Handlers) HandleSync(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	members, err := h.directoryService.ListMembers(ctx)
	if err != nil {
		h.logger.Error("Failed to list members", zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}
	if len(members) == 0 {
		h.sendError(ctx, b, chatID, "❌ Справочник сотрудников пуст")
		return
	}

	timezones := h.settings.SyncTimezones
	if len(timezones) == 0 {
		timezones = []string{h.settings.DefaultTimezone}
	}

	// Незавершённый мастер начинается заново
	h.stateManager.ClearState(chatID)
	ws, err := wizard.Transition(wizard.State{}, wizard.Start{Timezones: timezones, Members: members})
	if err != nil {
		h.logger.Error("Failed to start sync wizard", zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}
	h.stateManager.SetWizard(chatID, ws)

	h.logger.Info("Sync wizard started",
		zap.Int64("chat_id", chatID),
		zap.Int("members", len(members)))

	text, kb := common.BuildSyncTimezoneScreen(ws)
	h.sendHTML(ctx, b, chatID, text, kb)
}

// HandleConclude закрывает встречи, время которых прошло
func (h *Handlers) HandleConclude(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	n, err := h.schedulingService.ConcludeElapsed(ctx, h.now())
	if err != nil {
		h.logger.Error("Failed to conclude elapsed slots", zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	h.sendHTML(ctx, b, chatID, fmt.Sprintf("✔️ Закрыто встреч: %d", n), nil)
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от диалога
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	chatID := update.Message.Chat.ID
	currentState := h.stateManager.GetState(chatID)

	switch currentState {
	case state.StateCancelReason:
		groupID := h.stateManager.CancelTarget(chatID)
		h.stateManager.ClearState(chatID)
		h.cancelBooking(ctx, b, chatID, groupID, strings.TrimSpace(update.Message.Text))
	case state.StateSync:
		h.sendError(ctx, b, chatID, "ℹ️ Используйте кнопки мастера синхронизации или /cancel")
	default:
		h.logger.Debug("No active dialog, ignoring message",
			zap.Int64("chat_id", chatID))
	}
}

func (h *Handlers) cancelBooking(ctx context.Context, b *bot.Bot, chatID int64, id, reason string) {
	res, err := h.schedulingService.Cancel(ctx, id, reason, true)
	if res == nil {
		h.logger.Error("Failed to cancel booking",
			zap.String("id", id),
			zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	text, kb := common.BuildCancelledScreen(res)
	if err != nil {
		h.logger.Warn("Booking cancelled with failures",
			zap.String("id", id),
			zap.Error(err))
		text += "\n\n⚠️ " + common.ErrorMessage(err)
	}
	if reason != "" {
		text += fmt.Sprintf("\n📝 Причина: %s", html.EscapeString(reason))
	}

	h.logger.Info("Booking cancelled",
		zap.String("id", id),
		zap.Int("slots", len(res.Slots)),
		zap.Int64("chat_id", chatID))
	h.sendHTML(ctx, b, chatID, text, kb)
}

