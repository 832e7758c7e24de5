package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/timezone"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

// Сырой HTML во входном markdown экранируется: WithUnsafe не включён
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Email пишет заявителю о назначенной или отменённой встрече
type Email struct {
	sender   Sender
	timezone string
	logger   *zap.Logger
}

// NewEmail создаёт e-mail уведомитель. Время в письмах показывается в зоне tz.
func NewEmail(sender Sender, tz string, logger *zap.Logger) *Email {
	return &Email{sender: sender, timezone: tz, logger: logger}
}

func (e *Email) SlotScheduled(ctx context.Context, slot *model.BookingSlot, member *model.StaffMember) error {
	if slot.RequesterEmail == "" {
		return nil
	}

	var md strings.Builder
	fmt.Fprintf(&md, "Здравствуйте, %s!\n\n", greetingName(slot))
	fmt.Fprintf(&md, "Ваша встреча **%s** назначена.\n\n", subjectTitle(slot))
	if slot.FinalStartTime != nil {
		fmt.Fprintf(&md, "- Время: %s\n", e.formatTime(*slot.FinalStartTime))
	}
	fmt.Fprintf(&md, "- Сотрудник: %s\n", member.DisplayName)
	if slot.MeetingLink != nil && *slot.MeetingLink != "" {
		fmt.Fprintf(&md, "- Ссылка: <%s>\n", *slot.MeetingLink)
	}
	md.WriteString("\nПриглашение также отправлено в ваш календарь.\n")

	return e.send(ctx, slot.RequesterEmail, "Встреча назначена: "+subjectTitle(slot), md.String())
}

// SlotsRejected отправляет по одному письму на заявителя со списком отменённых вариантов
func (e *Email) SlotsRejected(ctx context.Context, slots []*model.BookingSlot, reason string) error {
	byRequester := make(map[string][]*model.BookingSlot)
	var order []string
	for _, slot := range slots {
		if slot.RequesterEmail == "" {
			continue
		}
		if _, seen := byRequester[slot.RequesterEmail]; !seen {
			order = append(order, slot.RequesterEmail)
		}
		byRequester[slot.RequesterEmail] = append(byRequester[slot.RequesterEmail], slot)
	}

	var errs []error
	for _, to := range order {
		group := byRequester[to]

		var md strings.Builder
		fmt.Fprintf(&md, "Здравствуйте, %s!\n\n", greetingName(group[0]))
		fmt.Fprintf(&md, "Заявка **%s** отменена.\n\n", subjectTitle(group[0]))
		for _, slot := range group {
			fmt.Fprintf(&md, "- %s\n", e.formatTime(slotTime(slot)))
		}
		if reason != "" {
			fmt.Fprintf(&md, "\nПричина: %s\n", reason)
		}

		if err := e.send(ctx, to, "Встреча отменена: "+subjectTitle(group[0]), md.String()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *Email) send(ctx context.Context, to, subject, markdown string) error {
	body, err := RenderMarkdown(markdown)
	if err != nil {
		return err
	}
	if _, err := e.sender.Send(ctx, Message{To: []string{to}, Subject: subject, HTML: body}); err != nil {
		e.logger.Warn("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

func (e *Email) formatTime(t time.Time) string {
	local := t.In(timezone.Location(e.timezone))
	return fmt.Sprintf("%s (%s)", local.Format("02.01.2006 15:04"), timezone.OffsetLabelAt(e.timezone, t))
}

// RenderMarkdown превращает markdown в HTML письма
func RenderMarkdown(md string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

func greetingName(slot *model.BookingSlot) string {
	if slot.RequesterName != "" {
		return slot.RequesterName
	}
	return slot.RequesterEmail
}

func subjectTitle(slot *model.BookingSlot) string {
	if slot.Title != "" {
		return slot.Title
	}
	return "Встреча"
}

func slotTime(slot *model.BookingSlot) time.Time {
	if slot.FinalStartTime != nil {
		return *slot.FinalStartTime
	}
	return slot.RequestedStartTime
}
