package common

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/Freeeeeet/staff_scheduler/internal/timezone"
	"github.com/Freeeeeet/staff_scheduler/internal/wizard"
	"github.com/go-telegram/bot/models"
)

// DefaultPageSize заявок на странице очереди
const DefaultPageSize = 5

// BuildPendingScreen формирует страницу очереди заявок
func BuildPendingScreen(groups []*model.RequestGroup, page, pageSize int, tz string) (string, *models.InlineKeyboardMarkup) {
	if len(groups) == 0 {
		return "✅ Нет заявок, ожидающих решения", nil
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	start, end, pages := keyboard.PageBounds(len(groups), pageSize, page)
	page = start / pageSize

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 <b>Ожидают решения: %d %s</b>\n",
		len(groups), formatting.PluralizeRequests(len(groups)))

	kb := keyboard.NewBuilder()
	for i, group := range groups[start:end] {
		num := start + i + 1
		sb.WriteString("\n")
		sb.WriteString(groupHeader(num, group))

		buttons := make([]models.InlineKeyboardButton, 0, len(group.Slots))
		for _, slot := range group.Slots {
			if slot.Status != model.SlotStatusRequested {
				continue
			}
			fmt.Fprintf(&sb, "  %d. %s\n", slot.Priority(), formatting.FormatDateTimeIn(slot.RequestedStartTime, tz))
			buttons = append(buttons, keyboard.Button(
				fmt.Sprintf("#%d.%d 👥", num, slot.Priority()),
				ShowRoster+slot.ID,
			))
		}
		kb.Columns(3, buttons...)
		kb.Row(keyboard.Button(fmt.Sprintf("#%d ❌ Отклонить", num), CancelGroup+group.ID))
	}

	sb.WriteString("\nНажмите на вариант времени, чтобы открыть ростер.")
	kb.AddPagination(PendingPage, page, pages)

	return sb.String(), kb.Build()
}

// BuildGroupScreen формирует карточку заявки со статусами всех слотов
func BuildGroupScreen(group *model.RequestGroup, tz string) (string, *models.InlineKeyboardMarkup) {
	status := formatting.GetGroupStatusDisplay(group.Status)

	var sb strings.Builder
	sb.WriteString(groupHeader(0, group))
	fmt.Fprintf(&sb, "%s Статус: %s\n\n", status.Emoji, status.Text)

	kb := keyboard.NewBuilder()
	for _, slot := range group.Slots {
		sb.WriteString(slotLine(slot, tz))
		if slot.Status == model.SlotStatusRequested || slot.Status == model.SlotStatusScheduled {
			kb.Row(keyboard.Button(
				fmt.Sprintf("👥 %s", formatting.FormatDateTimeIn(slot.RequestedStartTime, tz)),
				ShowRoster+slot.ID,
			))
		}
	}

	if group.Status == model.GroupStatusRequested || group.Status == model.GroupStatusScheduled {
		kb.Row(keyboard.Button("❌ Отменить заявку", CancelGroup+group.ID))
	}
	kb.Row(keyboard.BackToPendingButton())

	return sb.String(), kb.Build()
}

// BuildRosterScreen формирует ростер: сначала свободные сотрудники
func BuildRosterScreen(roster *service.Roster) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 <b>Ростер на %s</b>\n", formatting.FormatDateTimeIn(roster.Start, roster.Timezone))
	fmt.Fprintf(&sb, "⏱ %s\n\n", formatting.FormatDuration(roster.End.Sub(roster.Start)))

	if len(roster.Members) == 0 {
		sb.WriteString("Нет активных сотрудников. Запустите /sync")
		return sb.String(), keyboard.NewBuilder().Row(keyboard.BackToPendingButton()).Build()
	}

	kb := keyboard.NewBuilder()
	for i, m := range roster.Members {
		fmt.Fprintf(&sb, "%s %s", formatting.AvailabilityEmoji(m.Available, m.FetchFailed), html.EscapeString(m.Member.DisplayName))
		switch {
		case m.FetchFailed:
			sb.WriteString(" (календарь недоступен)")
		case !m.Available:
			sb.WriteString(" (занят")
			for _, b := range m.Busy {
				if b.Start.Before(roster.End) && b.End.After(roster.Start) {
					fmt.Fprintf(&sb, " %s", formatting.FormatTimeRangeIn(b.Start, b.End, roster.Timezone))
				}
			}
			sb.WriteString(")")
		case !m.FreeAtHour:
			sb.WriteString(" (есть встреча в этот час)")
		}
		sb.WriteString("\n")

		if roster.SlotID != "" {
			kb.Row(keyboard.Button(
				fmt.Sprintf("📌 Назначить: %s", m.Member.DisplayName),
				fmt.Sprintf("%s%d", AssignMember, i),
			))
		}
	}

	kb.Row(keyboard.BackToPendingButton())
	return sb.String(), kb.Build()
}

// BuildAssignedScreen формирует сообщение о назначенной встрече
func BuildAssignedScreen(res *service.AssignResult, tz string) (string, *models.InlineKeyboardMarkup) {
	slot := res.Slot

	var sb strings.Builder
	sb.WriteString("✅ <b>Встреча назначена</b>\n\n")
	fmt.Fprintf(&sb, "👤 %s\n", html.EscapeString(res.Member.DisplayName))
	if slot.FinalStartTime != nil && slot.FinalEndTime != nil {
		fmt.Fprintf(&sb, "📅 %s, %s\n",
			formatting.FormatDateTimeIn(*slot.FinalStartTime, tz),
			formatting.FormatTimeRangeIn(*slot.FinalStartTime, *slot.FinalEndTime, tz))
	}
	fmt.Fprintf(&sb, "📨 %s\n", html.EscapeString(slot.RequesterEmail))
	if len(res.Rejected) > 0 {
		fmt.Fprintf(&sb, "\n🚫 Отклонено вариантов: %d", len(res.Rejected))
	}

	kb := keyboard.NewBuilder()
	if res.MeetingLink != "" {
		kb.Row(keyboard.URLButton("🎥 Ссылка на встречу", res.MeetingLink))
	}
	kb.Row(keyboard.BackToPendingButton())

	return sb.String(), kb.Build()
}

// BuildCancelConfirmScreen запрашивает подтверждение отмены заявки
func BuildCancelConfirmScreen(group *model.RequestGroup, tz string) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString("⚠️ <b>Отменить заявку?</b>\n\n")
	sb.WriteString(groupHeader(0, group))
	for _, slot := range group.Slots {
		sb.WriteString(slotLine(slot, tz))
	}
	sb.WriteString("\nНазначенная встреча будет удалена из календаря, участники получат уведомление.")

	kb := keyboard.NewBuilder().
		Row(keyboard.ConfirmButton(ConfirmCancel + group.ID)).
		Row(keyboard.Button("✏️ Указать причину", CancelReason+group.ID)).
		Row(keyboard.BackButton(ViewGroup + group.ID))

	return sb.String(), kb.Build()
}

// BuildCancelledScreen формирует итог отмены
func BuildCancelledScreen(res *service.CancelResult) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("🚫 Заявка отменена: %d %s",
		len(res.Slots), formatting.PluralizeSlots(len(res.Slots)))
	if res.EventsDeleted > 0 {
		text += fmt.Sprintf("\n🗑 Удалено событий календаря: %d", res.EventsDeleted)
	}
	return text, keyboard.NewBuilder().Row(keyboard.BackToPendingButton()).Build()
}

// BuildSyncTimezoneScreen первый шаг мастера: выбор таймзоны
func BuildSyncTimezoneScreen(ws wizard.State) (string, *models.InlineKeyboardMarkup) {
	text := "🔄 <b>Синхронизация сотрудников</b>\n\nШаг 1/3. Выберите таймзону команды:"

	buttons := make([]models.InlineKeyboardButton, 0, len(ws.Timezones))
	for i, tz := range ws.Timezones {
		label := fmt.Sprintf("%s (%s)", tz, timezone.OffsetLabel(tz))
		if tz == ws.Timezone {
			label = "✅ " + label
		}
		buttons = append(buttons, keyboard.Button(label, fmt.Sprintf("%s%d", SyncTimezone, i)))
	}

	kb := keyboard.NewBuilder().
		Columns(2, buttons...).
		Row(keyboard.CancelButton(SyncCancel))
	return text, kb.Build()
}

// BuildSyncMembersScreen второй шаг мастера: выбор сотрудников
func BuildSyncMembersScreen(ws wizard.State) (string, *models.InlineKeyboardMarkup) {
	text := fmt.Sprintf("🔄 <b>Синхронизация сотрудников</b>\n\n"+
		"Таймзона: %s\n"+
		"Шаг 2/3. Отметьте сотрудников, которые принимают встречи (%d из %d):",
		html.EscapeString(ws.Timezone), len(ws.Selected), len(ws.Members))

	kb := keyboard.NewBuilder()
	for i, m := range ws.Members {
		mark := "⬜"
		if ws.Selected[m.ID] {
			mark = "✅"
		}
		kb.Row(keyboard.Button(
			fmt.Sprintf("%s %s", mark, m.DisplayName),
			fmt.Sprintf("%s%d", SyncToggle, i),
		))
	}
	kb.Row(keyboard.BackButton(SyncBack), keyboard.Button("➡️ Далее", SyncNext))
	kb.Row(keyboard.CancelButton(SyncCancel))

	return text, kb.Build()
}

// BuildSyncReviewScreen третий шаг мастера: итоговый план и занятость
func BuildSyncReviewScreen(ws wizard.State) (string, *models.InlineKeyboardMarkup) {
	plan := ws.Plan()

	var sb strings.Builder
	sb.WriteString("🔄 <b>Синхронизация сотрудников</b>\n\n")
	fmt.Fprintf(&sb, "Шаг 3/3. Таймзона: %s (%s)\n\n", html.EscapeString(ws.Timezone), timezone.OffsetLabel(ws.Timezone))

	fmt.Fprintf(&sb, "Активны (%d %s):\n", len(plan.Activate), formatting.PluralizeMembers(len(plan.Activate)))
	for _, m := range ws.SelectedMembers() {
		mark := "•"
		if ws.Availability != nil {
			free, checked := ws.Availability[m.ID]
			mark = formatting.AvailabilityEmoji(free, !checked)
		}
		fmt.Fprintf(&sb, "%s %s\n", mark, html.EscapeString(m.DisplayName))
	}

	if len(plan.Deactivate) > 0 {
		fmt.Fprintf(&sb, "\nБудут отключены: %d %s\n", len(plan.Deactivate), formatting.PluralizeMembers(len(plan.Deactivate)))
	}
	if !ws.CheckedAt.IsZero() {
		fmt.Fprintf(&sb, "\nЗанятость на %s", formatting.FormatDateTimeIn(ws.CheckedAt, ws.Timezone))
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.BackButton(SyncBack), keyboard.ConfirmButton(SyncConfirm)).
		Row(keyboard.CancelButton(SyncCancel))

	return sb.String(), kb.Build()
}

// BuildSyncDoneScreen итог синхронизации
func BuildSyncDoneScreen(plan wizard.Plan) string {
	return fmt.Sprintf("✅ Справочник обновлён\n\nТаймзона: %s\nАктивировано: %d\nОтключено: %d",
		html.EscapeString(plan.Timezone), len(plan.Activate), len(plan.Deactivate))
}

func groupHeader(num int, group *model.RequestGroup) string {
	if len(group.Slots) == 0 {
		return ""
	}
	first := group.Slots[0]
	prefix := ""
	if num > 0 {
		prefix = fmt.Sprintf("#%d ", num)
	}
	header := fmt.Sprintf("<b>%s%s</b> &lt;%s&gt;\n",
		prefix, html.EscapeString(first.RequesterName), html.EscapeString(first.RequesterEmail))
	if first.Title != "" {
		header += fmt.Sprintf("📝 %s\n", html.EscapeString(first.Title))
	}
	return header
}

func slotLine(slot *model.BookingSlot, tz string) string {
	status := formatting.GetSlotStatusDisplay(slot.Status)
	at := slot.RequestedStartTime
	if slot.FinalStartTime != nil {
		at = *slot.FinalStartTime
	}
	line := fmt.Sprintf("%s %s: %s", status.Emoji, formatting.FormatDateTimeIn(at, tz), status.Text)
	if slot.RejectionReason != nil && slot.Status == model.SlotStatusRejected {
		line += fmt.Sprintf(" (%s)", html.EscapeString(*slot.RejectionReason))
	}
	return line + "\n"
}
