package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks/admin"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	switch {
	case data == common.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Очередь заявок =====
	case strings.HasPrefix(data, common.PendingPage):
		admin.HandlePendingPage(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ViewGroup):
		admin.HandleViewGroup(ctx, b, callback, h)

	// ===== Ростер и назначение =====
	case strings.HasPrefix(data, common.ShowRoster):
		admin.HandleShowRoster(ctx, b, callback, h)
	case strings.HasPrefix(data, common.AssignMember):
		admin.HandleAssignMember(ctx, b, callback, h)

	// ===== Отмена =====
	case strings.HasPrefix(data, common.CancelGroup):
		admin.HandleCancelGroup(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ConfirmCancel):
		admin.HandleConfirmCancel(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CancelReason):
		admin.HandleCancelReason(ctx, b, callback, h)

	// ===== Синхронизация справочника =====
	case strings.HasPrefix(data, common.SyncTimezone):
		admin.HandleSyncTimezone(ctx, b, callback, h)
	case strings.HasPrefix(data, common.SyncToggle):
		admin.HandleSyncToggle(ctx, b, callback, h)
	case data == common.SyncNext:
		admin.HandleSyncNext(ctx, b, callback, h)
	case data == common.SyncBack:
		admin.HandleSyncBack(ctx, b, callback, h)
	case data == common.SyncConfirm:
		admin.HandleSyncConfirm(ctx, b, callback, h)
	case data == common.SyncCancel:
		admin.HandleSyncCancel(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Неизвестная команда")
	}
}
