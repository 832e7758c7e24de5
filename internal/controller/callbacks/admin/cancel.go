package admin

import (
	"context"

	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Отмена заявки
// ========================

// HandleCancelGroup запрашивает подтверждение отмены
func HandleCancelGroup(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.With(ctx, b, callback, h, func(hc *common.HandlerContext) {
		groupID, err := common.ParseArg(callback.Data, common.CancelGroup)
		if err != nil {
			common.HandleError(hc, err, "parse group id")
			return
		}

		group, err := h.RequestService.GetGroup(ctx, groupID)
		if err != nil {
			common.HandleError(hc, err, "get group")
			return
		}

		text, kb := common.BuildCancelConfirmScreen(group, hc.Timezone())
		hc.Show(text, kb)
		hc.Answer("")
	})
}

// HandleConfirmCancel отменяет все слоты заявки с причиной по умолчанию
func HandleConfirmCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.With(ctx, b, callback, h, func(hc *common.HandlerContext) {
		groupID, err := common.ParseArg(callback.Data, common.ConfirmCancel)
		if err != nil {
			common.HandleError(hc, err, "parse group id")
			return
		}

		res, err := h.SchedulingService.Cancel(ctx, groupID, "", true)
		if res == nil {
			common.HandleError(hc, err, "cancel group")
			return
		}

		text, kb := common.BuildCancelledScreen(res)
		if err != nil {
			h.Logger.Warn("Group cancelled with failures",
				zap.String("group_id", groupID),
				zap.Error(err))
			text += "\n\n⚠️ " + common.ErrorMessage(err)
		}

		common.LogAndAnswer(hc, "Group cancelled", "🚫 Заявка отменена",
			zap.String("group_id", groupID),
			zap.Int("slots", len(res.Slots)))
		hc.Show(text, kb)
	})
}

// HandleCancelReason ждёт причину отмены следующим сообщением
func HandleCancelReason(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.With(ctx, b, callback, h, func(hc *common.HandlerContext) {
		groupID, err := common.ParseArg(callback.Data, common.CancelReason)
		if err != nil {
			common.HandleError(hc, err, "parse group id")
			return
		}

		h.StateManager.AwaitCancelReason(hc.ChatID, groupID)

		kb := keyboard.NewBuilder().
			Row(keyboard.BackButton(common.ViewGroup + groupID)).
			Build()
		hc.Show("✏️ Напишите причину отмены одним сообщением.\n\nДля выхода используйте /cancel", kb)
		hc.Answer("")
	})
}
