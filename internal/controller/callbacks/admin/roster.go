package admin

import (
	"context"

	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Ростер и назначение
// ========================

// HandleShowRoster проверяет календари активных сотрудников на время слота
func HandleShowRoster(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.With(ctx, b, callback, h, func(hc *common.HandlerContext) {
		slotID, err := common.ParseArg(callback.Data, common.ShowRoster)
		if err != nil {
			common.HandleError(hc, err, "parse slot id")
			return
		}

		// Проверка календарей может занять несколько секунд
		hc.Answer("⏳ Проверяю календари...")

		roster, err := h.RosterService.CheckSlot(ctx, slotID, hc.Timezone())
		if err != nil {
			h.Logger.Error("Failed to build roster",
				zap.String("slot_id", slotID),
				zap.Error(err))
			hc.Show(common.ErrorMessage(err), nil)
			return
		}

		h.StateManager.SetRoster(hc.ChatID, common.RosterContextOf(roster))

		text, kb := common.BuildRosterScreen(roster)
		hc.Show(text, kb)
	})
}

// HandleAssignMember назначает слот выбранному в ростере сотруднику
func HandleAssignMember(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.With(ctx, b, callback, h, func(hc *common.HandlerContext) {
		idx, err := common.ParseIndex(callback.Data, common.AssignMember)
		if err != nil {
			common.HandleError(hc, err, "parse member index")
			return
		}

		rc, ok := h.StateManager.Roster(hc.ChatID)
		if !ok || rc.SlotID == "" {
			common.HandleError(hc, common.ErrRosterExpired, "assign member")
			return
		}
		memberID, ok := rc.MemberAt(idx)
		if !ok {
			common.HandleError(hc, common.ErrRosterExpired, "assign member")
			return
		}

		res, err := h.SchedulingService.Assign(ctx, rc.SlotID, memberID, rc.Start)
		if res == nil {
			common.HandleError(hc, err, "assign member")
			return
		}

		text, kb := common.BuildAssignedScreen(res, rc.Timezone)
		if err != nil {
			// Назначение сохранено, не удалось отклонить остальные варианты
			h.Logger.Warn("Slot assigned with cascade failure",
				zap.String("slot_id", rc.SlotID),
				zap.Error(err))
			text += "\n\n⚠️ Не все остальные варианты удалось отклонить"
		}

		common.LogAndAnswer(hc, "Slot assigned from roster", "✅ Встреча назначена",
			zap.String("slot_id", rc.SlotID),
			zap.String("member_id", memberID))
		hc.Show(text, kb)
	})
}
