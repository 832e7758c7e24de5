package handlers

import (
	"context"
	"slices"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const accessDeniedText = "⛔ Бот доступен только администраторам."

// AdminOnly пропускает только обновления из разрешённых чатов или от
// разрешённых пользователей. Пустой список снимает ограничение.
func AdminOnly(admins []int64, logger *zap.Logger) bot.Middleware {
	if len(admins) == 0 {
		logger.Warn("ADMIN_CHAT_IDS is empty, bot is open to everyone")
	}

	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if len(admins) == 0 {
				next(ctx, b, update)
				return
			}

			chatID, userID := updateSender(update)
			if slices.Contains(admins, chatID) || slices.Contains(admins, userID) {
				next(ctx, b, update)
				return
			}

			logger.Warn("Rejected update from non-admin",
				zap.Int64("chat_id", chatID),
				zap.Int64("user_id", userID))

			switch {
			case update.CallbackQuery != nil:
				b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
					CallbackQueryID: update.CallbackQuery.ID,
					Text:            accessDeniedText,
					ShowAlert:       true,
				})
			case update.Message != nil:
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   accessDeniedText,
				})
			}
		}
	}
}

// updateSender возвращает чат и пользователя обновления
func updateSender(update *models.Update) (chatID, userID int64) {
	switch {
	case update.Message != nil:
		chatID = update.Message.Chat.ID
		if update.Message.From != nil {
			userID = update.Message.From.ID
		}
	case update.CallbackQuery != nil:
		userID = update.CallbackQuery.From.ID
		chatID = userID
		if msg := update.CallbackQuery.Message.Message; msg != nil {
			chatID = msg.Chat.ID
		}
	}
	return chatID, userID
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendHTML отправляет сообщение в HTML-разметке и логирует если не удалось
func (h *Handlers) sendHTML(ctx context.Context, b *bot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
