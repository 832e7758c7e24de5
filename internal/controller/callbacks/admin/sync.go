package admin

import (
	"context"

	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/staff_scheduler/internal/wizard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Мастер синхронизации справочника
// ========================

// HandleSyncTimezone выбор таймзоны команды
func HandleSyncTimezone(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withWizard(ctx, b, callback, h, func(hc *common.HandlerContext, ws wizard.State) (wizard.Input, error) {
		idx, err := common.ParseIndex(callback.Data, common.SyncTimezone)
		if err != nil {
			return nil, err
		}
		if idx >= len(ws.Timezones) {
			return nil, common.ErrInvalidFormat
		}
		return wizard.ChooseTimezone{Name: ws.Timezones[idx]}, nil
	})
}

// HandleSyncToggle отмечает или снимает сотрудника
func HandleSyncToggle(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withWizard(ctx, b, callback, h, func(hc *common.HandlerContext, ws wizard.State) (wizard.Input, error) {
		idx, err := common.ParseIndex(callback.Data, common.SyncToggle)
		if err != nil {
			return nil, err
		}
		if idx >= len(ws.Members) {
			return nil, common.ErrInvalidFormat
		}
		return wizard.ToggleMember{ID: ws.Members[idx].ID}, nil
	})
}

// HandleSyncNext переходит к подтверждению и проверяет занятость выбранных
func HandleSyncNext(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.With(ctx, b, callback, h, func(hc *common.HandlerContext) {
		ws := h.StateManager.Wizard(hc.ChatID)
		if ws.Step == wizard.StepIdle {
			common.HandleError(hc, common.ErrNoWizardRunning, "sync next")
			return
		}

		next, err := wizard.Transition(ws, wizard.ConfirmMembers{})
		if err != nil {
			common.HandleError(hc, err, "sync next")
			return
		}
		hc.Answer("⏳ Проверяю календари...")

		next, err = wizard.Transition(next, loadAvailability(ctx, h, next))
		if err != nil {
			common.HandleError(hc, err, "sync availability")
			return
		}

		h.StateManager.SetWizard(hc.ChatID, next)
		text, kb := syncScreen(next)
		hc.Show(text, kb)
	})
}

// HandleSyncBack шаг назад
func HandleSyncBack(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withWizard(ctx, b, callback, h, func(*common.HandlerContext, wizard.State) (wizard.Input, error) {
		return wizard.Back{}, nil
	})
}

// HandleSyncConfirm применяет план к справочнику
func HandleSyncConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.With(ctx, b, callback, h, func(hc *common.HandlerContext) {
		ws := h.StateManager.Wizard(hc.ChatID)
		if ws.Step == wizard.StepIdle {
			common.HandleError(hc, common.ErrNoWizardRunning, "sync confirm")
			return
		}

		next, err := wizard.Transition(ws, wizard.Confirm{})
		if err != nil {
			common.HandleError(hc, err, "sync confirm")
			return
		}

		plan := next.Plan()
		if err := h.DirectoryService.ApplySync(ctx, plan); err != nil {
			// Мастер остаётся на шаге review, подтверждение можно повторить
			common.HandleError(hc, err, "apply sync")
			return
		}

		h.StateManager.SetWizard(hc.ChatID, next)
		common.LogAndAnswer(hc, "Directory synced", "✅ Готово",
			zap.String("timezone", plan.Timezone),
			zap.Int("activated", len(plan.Activate)),
			zap.Int("deactivated", len(plan.Deactivate)))
		hc.Show(common.BuildSyncDoneScreen(plan), nil)
	})
}

// HandleSyncCancel прерывает мастер без изменений
func HandleSyncCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.With(ctx, b, callback, h, func(hc *common.HandlerContext) {
		ws := h.StateManager.Wizard(hc.ChatID)
		if next, err := wizard.Transition(ws, wizard.Cancel{}); err == nil {
			h.StateManager.SetWizard(hc.ChatID, next)
		}
		hc.ClearState()
		hc.Show("❌ Синхронизация отменена", nil)
		hc.Answer("")
	})
}

// withWizard применяет ввод к мастеру чата и перерисовывает текущий шаг
func withWizard(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	input func(*common.HandlerContext, wizard.State) (wizard.Input, error),
) {
	common.With(ctx, b, callback, h, func(hc *common.HandlerContext) {
		ws := h.StateManager.Wizard(hc.ChatID)
		if ws.Step == wizard.StepIdle {
			common.HandleError(hc, common.ErrNoWizardRunning, "sync step")
			return
		}

		in, err := input(hc, ws)
		if err != nil {
			common.HandleError(hc, err, "sync input")
			return
		}

		next, err := wizard.Transition(ws, in)
		if err != nil {
			common.HandleError(hc, err, "sync transition")
			return
		}

		h.StateManager.SetWizard(hc.ChatID, next)
		text, kb := syncScreen(next)
		hc.Show(text, kb)
		hc.Answer("")
	})
}

// loadAvailability проверяет, свободны ли выбранные сотрудники прямо сейчас.
// Сотрудник с недоступным календарём считается свободным.
func loadAvailability(ctx context.Context, h *callbacktypes.Handler, ws wizard.State) wizard.AvailabilityLoaded {
	selected := ws.SelectedMembers()
	for i := range selected {
		selected[i].IsActive = true
	}

	now := h.Now()
	roster := h.RosterService.CheckMembers(ctx, selected, now, ws.Timezone)

	free := make(map[string]bool, len(roster.Members))
	for _, m := range roster.Members {
		free[m.Member.ID] = m.Available || m.FetchFailed
	}
	return wizard.AvailabilityLoaded{Free: free, CheckedAt: now}
}

func syncScreen(ws wizard.State) (string, *models.InlineKeyboardMarkup) {
	switch ws.Step {
	case wizard.StepMembers:
		return common.BuildSyncMembersScreen(ws)
	case wizard.StepReview:
		return common.BuildSyncReviewScreen(ws)
	default:
		return common.BuildSyncTimezoneScreen(ws)
	}
}
