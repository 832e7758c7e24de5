package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/timezone"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// MessageSender часть *bot.Bot, нужная уведомителю
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Telegram дублирует решения в чаты администраторов
type Telegram struct {
	bot      MessageSender
	chatIDs  []int64
	timezone string
	logger   *zap.Logger
}

func NewTelegram(b MessageSender, chatIDs []int64, tz string, logger *zap.Logger) *Telegram {
	return &Telegram{bot: b, chatIDs: chatIDs, timezone: tz, logger: logger}
}

func (t *Telegram) SlotScheduled(ctx context.Context, slot *model.BookingSlot, member *model.StaffMember) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ <b>Назначена встреча</b>: %s\n", html.EscapeString(subjectTitle(slot)))
	fmt.Fprintf(&sb, "👤 %s → %s\n", html.EscapeString(greetingName(slot)), html.EscapeString(member.DisplayName))
	fmt.Fprintf(&sb, "📅 %s", t.formatTime(slotTime(slot)))
	if slot.MeetingLink != nil && *slot.MeetingLink != "" {
		fmt.Fprintf(&sb, "\n🎥 %s", html.EscapeString(*slot.MeetingLink))
	}
	return t.broadcast(ctx, sb.String())
}

func (t *Telegram) SlotsRejected(ctx context.Context, slots []*model.BookingSlot, reason string) error {
	if len(slots) == 0 {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🚫 <b>Заявка отменена</b>: %s\n", html.EscapeString(subjectTitle(slots[0])))
	fmt.Fprintf(&sb, "👤 %s\n", html.EscapeString(greetingName(slots[0])))
	for _, slot := range slots {
		fmt.Fprintf(&sb, "• %s\n", t.formatTime(slotTime(slot)))
	}
	if reason != "" {
		fmt.Fprintf(&sb, "📝 %s", html.EscapeString(reason))
	}
	return t.broadcast(ctx, sb.String())
}

func (t *Telegram) broadcast(ctx context.Context, text string) error {
	var errs []error
	for _, chatID := range t.chatIDs {
		_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      text,
			ParseMode: models.ParseModeHTML,
		})
		if err != nil {
			t.logger.Warn("Failed to notify admin chat",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}
	return errors.Join(errs...)
}

func (t *Telegram) formatTime(at time.Time) string {
	local := at.In(timezone.Location(t.timezone))
	return fmt.Sprintf("%s (%s)", local.Format("02.01.2006 15:04"), timezone.OffsetLabelAt(t.timezone, at))
}
