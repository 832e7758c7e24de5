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
// Очередь заявок
// ========================

// HandlePendingPage показывает страницу очереди заявок
func HandlePendingPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.With(ctx, b, callback, h, func(hc *common.HandlerContext) {
		page, err := common.ParseIndex(callback.Data, common.PendingPage)
		if err != nil {
			common.HandleError(hc, err, "parse pending page")
			return
		}

		groups, err := h.RequestService.ListOpenGroups(ctx)
		if err != nil {
			common.HandleError(hc, err, "list open groups")
			return
		}

		text, kb := common.BuildPendingScreen(groups, page, h.Settings.PageSize, hc.Timezone())
		hc.Show(text, kb)
		hc.Answer("")
	})
}

// HandleViewGroup показывает карточку заявки
func HandleViewGroup(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.With(ctx, b, callback, h, func(hc *common.HandlerContext) {
		groupID, err := common.ParseArg(callback.Data, common.ViewGroup)
		if err != nil {
			common.HandleError(hc, err, "parse group id")
			return
		}

		group, err := h.RequestService.GetGroup(ctx, groupID)
		if err != nil {
			common.HandleError(hc, err, "get group")
			return
		}

		h.Logger.Debug("Showing group",
			zap.String("group_id", group.ID),
			zap.String("status", string(group.Status)))

		text, kb := common.BuildGroupScreen(group, hc.Timezone())
		hc.Show(text, kb)
		hc.Answer("")
	})
}
