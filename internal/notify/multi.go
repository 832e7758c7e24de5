// Package notify рассылает уведомления о решениях по заявкам:
// администраторам в Telegram и заявителям по e-mail.
package notify

import (
	"context"
	"errors"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
)

// Multi вызывает все уведомители по очереди. Ошибка одного не мешает остальным.
type Multi []service.Notifier

func (m Multi) SlotScheduled(ctx context.Context, slot *model.BookingSlot, member *model.StaffMember) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.SlotScheduled(ctx, slot, member))
	}
	return errors.Join(errs...)
}

func (m Multi) SlotsRejected(ctx context.Context, slots []*model.BookingSlot, reason string) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.SlotsRejected(ctx, slots, reason))
	}
	return errors.Join(errs...)
}
