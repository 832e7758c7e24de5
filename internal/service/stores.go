package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
)

// SlotStore хранилище слотов. Get-методы возвращают nil, nil если запись не найдена.
type SlotStore interface {
	GetByID(ctx context.Context, id string) (*model.BookingSlot, error)
	GetByGroup(ctx context.Context, groupOrSlotID string) ([]*model.BookingSlot, error)
	Upsert(ctx context.Context, slot *model.BookingSlot) error
	ListOpenGroupSlots(ctx context.Context) ([]*model.BookingSlot, error)
	ListScheduledEndedBefore(ctx context.Context, before time.Time) ([]*model.BookingSlot, error)
}

// MemberStore справочник сотрудников
type MemberStore interface {
	GetByID(ctx context.Context, id string) (*model.StaffMember, error)
	GetByIdentity(ctx context.Context, identity model.MemberIdentity) (*model.StaffMember, error)
	ListActive(ctx context.Context) ([]*model.StaffMember, error)
	ListAll(ctx context.Context) ([]*model.StaffMember, error)
	Upsert(ctx context.Context, member *model.StaffMember) error
	ApplyActivation(ctx context.Context, activate, deactivate []string, tz string) error
}

// Notifier уведомления после сохранения решения. Ошибки не откатывают операцию.
type Notifier interface {
	SlotScheduled(ctx context.Context, slot *model.BookingSlot, member *model.StaffMember) error
	SlotsRejected(ctx context.Context, slots []*model.BookingSlot, reason string) error
}

type noopNotifier struct{}

func (noopNotifier) SlotScheduled(context.Context, *model.BookingSlot, *model.StaffMember) error {
	return nil
}

func (noopNotifier) SlotsRejected(context.Context, []*model.BookingSlot, string) error {
	return nil
}
