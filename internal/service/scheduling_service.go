package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/availability"
	"github.com/Freeeeeet/staff_scheduler/internal/calendar"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"go.uber.org/zap"
)

const (
	// ReasonSiblingConfirmed причина каскадного отклонения соседних слотов
	ReasonSiblingConfirmed = "another slot in this request was confirmed"
	// DefaultCancelReason причина, если администратор её не указал
	DefaultCancelReason = "cancelled by admin"

	defaultCallTimeout = 10 * time.Second
)

// SchedulingOptions параметры назначения встреч
type SchedulingOptions struct {
	SlotDuration time.Duration
	CallTimeout  time.Duration
}

// SchedulingService назначает, переназначает и отменяет встречи,
// синхронизируя хранилище и внешний календарь
type SchedulingService struct {
	slots        SlotStore
	members      MemberStore
	calendar     calendar.Gateway
	notifier     Notifier
	locks        *groupLocks
	slotDuration time.Duration
	callTimeout  time.Duration
	now          func() time.Time
	logger       *zap.Logger
}

func NewSchedulingService(
	slots SlotStore,
	members MemberStore,
	gateway calendar.Gateway,
	notifier Notifier,
	opts SchedulingOptions,
	logger *zap.Logger,
) *SchedulingService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if opts.SlotDuration <= 0 {
		opts.SlotDuration = availability.DefaultSlotDuration
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaultCallTimeout
	}
	return &SchedulingService{
		slots:        slots,
		members:      members,
		calendar:     gateway,
		notifier:     notifier,
		locks:        newGroupLocks(),
		slotDuration: opts.SlotDuration,
		callTimeout:  opts.CallTimeout,
		now:          time.Now,
		logger:       logger,
	}
}

// AssignResult итог назначения
type AssignResult struct {
	Slot        *model.BookingSlot
	Member      *model.StaffMember
	MeetingLink string
	// Rejected соседние слоты, отклонённые каскадом
	Rejected []*model.BookingSlot
}

// Assign назначает слот сотруднику memberID на время selectedInstant
// (нулевое значение - запрошенное время слота). Если слот уже назначен,
// прежнее событие удаляется из календаря прежнего сотрудника.
//
// Если каскадное отклонение соседей не удалось записать, возвращается
// и результат, и PersistenceError: само назначение уже сохранено.
func (s *SchedulingService) Assign(ctx context.Context, slotID, memberID string, selectedInstant time.Time) (*AssignResult, error) {
	slot, err := s.loadSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(slot.RequestGroupID)
	defer unlock()

	// Перечитываем под блокировкой: пока ждали, группу могли изменить
	slot, err = s.loadSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	if slot.Status != model.SlotStatusRequested && slot.Status != model.SlotStatusScheduled {
		return nil, fmt.Errorf("%w: slot %s is %s", ErrInvalidTransition, slot.ID, slot.Status)
	}

	member, err := s.loadActiveMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if selectedInstant.IsZero() {
		selectedInstant = slot.RequestedStartTime
	}
	start := selectedInstant
	end := start.Add(s.slotDuration)

	created, err := s.createEvent(ctx, member, slot, slot.Title, slot.Description, start, end)
	if err != nil {
		s.logger.Error("Failed to create calendar event",
			zap.String("slot_id", slot.ID),
			zap.String("member_id", member.ID),
			zap.String("identity", member.CalendarIdentity.String()),
			zap.Error(err))
		return nil, err
	}

	updated := slot.Clone()
	updated.Status = model.SlotStatusScheduled
	updated.AssignedMemberID = &member.ID
	updated.FinalStartTime = &start
	updated.FinalEndTime = &end
	updated.ExternalEventID = &created.EventID
	updated.MeetingLink = &created.MeetingLink
	updated.RejectionReason = nil
	updated.RejectedBy = nil

	if err := s.slots.Upsert(ctx, updated); err != nil {
		s.discardEvent(ctx, member, created.EventID, slot.ID)
		return nil, &PersistenceError{Op: "assign", SlotID: slot.ID, Err: err}
	}

	// Прежнее событие удаляем только после сохранения нового:
	// при сбое записи слот продолжает ссылаться на живое событие
	if slot.Status == model.SlotStatusScheduled && slot.AssignedMemberID != nil && slot.HasCalendarEvent() {
		s.deleteSupersededEvent(ctx, slot, *slot.AssignedMemberID, true, "assign")
	}

	s.logger.Info("Slot scheduled",
		zap.String("slot_id", updated.ID),
		zap.String("group_id", updated.RequestGroupID),
		zap.String("member_id", member.ID),
		zap.Time("start", start),
		zap.String("event_id", created.EventID))

	rejected, cascadeErr := s.rejectSiblings(ctx, updated)

	if err := s.notifier.SlotScheduled(ctx, updated, member); err != nil {
		s.logger.Warn("Failed to send scheduled notification",
			zap.String("slot_id", updated.ID),
			zap.Error(err))
	}

	result := &AssignResult{
		Slot:        updated,
		Member:      member,
		MeetingLink: created.MeetingLink,
		Rejected:    rejected,
	}
	return result, cascadeErr
}

// rejectSiblings отклоняет requested слоты той же группы
func (s *SchedulingService) rejectSiblings(ctx context.Context, scheduled *model.BookingSlot) ([]*model.BookingSlot, error) {
	siblings, err := s.slots.GetByGroup(ctx, scheduled.RequestGroupID)
	if err != nil {
		s.logger.Error("Failed to load sibling slots",
			zap.String("group_id", scheduled.RequestGroupID),
			zap.Error(err))
		return nil, &PersistenceError{Op: "cascade", SlotID: scheduled.ID, Err: err}
	}

	var (
		rejected []*model.BookingSlot
		errs     []error
	)
	for _, sibling := range siblings {
		if sibling.ID == scheduled.ID || sibling.RequestGroupID != scheduled.RequestGroupID {
			continue
		}
		if sibling.Status != model.SlotStatusRequested {
			continue
		}

		next := sibling.Clone()
		markRejected(next, ReasonSiblingConfirmed)

		if err := s.slots.Upsert(ctx, next); err != nil {
			s.logger.Error("Failed to reject sibling slot",
				zap.String("slot_id", sibling.ID),
				zap.String("group_id", sibling.RequestGroupID),
				zap.Error(err))
			errs = append(errs, &PersistenceError{Op: "cascade", SlotID: sibling.ID, Err: err})
			continue
		}
		rejected = append(rejected, next)
	}

	if len(rejected) > 0 {
		s.logger.Info("Sibling slots rejected",
			zap.String("group_id", scheduled.RequestGroupID),
			zap.Int("count", len(rejected)))
	}

	return rejected, errors.Join(errs...)
}

// CancelResult итог отмены
type CancelResult struct {
	Slots []*model.BookingSlot
	// EventsDeleted сколько событий удалось удалить из календаря
	EventsDeleted int
}

// Cancel отклоняет все слоты, у которых id или request_group_id равен id.
// Повторный вызов безопасен. Ошибки удаления событий не фатальны.
func (s *SchedulingService) Cancel(ctx context.Context, id, reason string, notifyAttendees bool) (*CancelResult, error) {
	if reason == "" {
		reason = DefaultCancelReason
	}

	slots, err := s.slots.GetByGroup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get slots: %w", err)
	}
	if len(slots) == 0 {
		return nil, &NotFoundError{Entity: "booking", ID: id}
	}

	unlock := s.locks.Lock(groupIDs(slots)...)
	defer unlock()

	slots, err = s.slots.GetByGroup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get slots: %w", err)
	}

	result := &CancelResult{}
	for _, slot := range slots {
		if slot.Status == model.SlotStatusScheduled && slot.HasCalendarEvent() && slot.AssignedMemberID != nil {
			if s.deleteSupersededEvent(ctx, slot, *slot.AssignedMemberID, notifyAttendees, "cancel") {
				result.EventsDeleted++
			}
		}
	}

	var errs []error
	for _, slot := range slots {
		next := slot.Clone()
		markRejected(next, reason)

		if err := s.slots.Upsert(ctx, next); err != nil {
			s.logger.Error("Failed to persist cancellation",
				zap.String("slot_id", slot.ID),
				zap.Error(err))
			errs = append(errs, &PersistenceError{Op: "cancel", SlotID: slot.ID, Err: err})
			continue
		}
		result.Slots = append(result.Slots, next)
	}

	if err := errors.Join(errs...); err != nil {
		return result, err
	}

	s.logger.Info("Slots cancelled",
		zap.String("id", id),
		zap.Int("slots", len(result.Slots)),
		zap.Int("events_deleted", result.EventsDeleted),
		zap.String("reason", reason))

	if err := s.notifier.SlotsRejected(ctx, result.Slots, reason); err != nil {
		s.logger.Warn("Failed to send rejection notification",
			zap.String("id", id),
			zap.Error(err))
	}

	return result, nil
}

// Edit меняет заголовок, описание и, возможно, сотрудника у назначенного слота
func (s *SchedulingService) Edit(ctx context.Context, slotID, title, description, newMemberID string) (*model.BookingSlot, error) {
	slot, err := s.loadSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(slot.RequestGroupID)
	defer unlock()

	slot, err = s.loadSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	if slot.Status != model.SlotStatusScheduled || !slot.HasCalendarEvent() || slot.AssignedMemberID == nil {
		return nil, fmt.Errorf("%w: slot %s is %s", ErrInvalidTransition, slot.ID, slot.Status)
	}

	if newMemberID == "" {
		newMemberID = *slot.AssignedMemberID
	}

	member, err := s.loadActiveMember(ctx, newMemberID)
	if err != nil {
		return nil, err
	}

	updated := slot.Clone()
	updated.Title = title
	updated.Description = description

	memberChanged := newMemberID != *slot.AssignedMemberID
	var created *calendar.CreatedEvent
	if memberChanged {
		start, end := s.finalWindow(slot)
		created, err = s.createEvent(ctx, member, slot, title, description, start, end)
		if err != nil {
			return nil, err
		}

		updated.AssignedMemberID = &member.ID
		updated.ExternalEventID = &created.EventID
		updated.MeetingLink = &created.MeetingLink
	} else {
		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		patched, err := s.calendar.UpdateEvent(callCtx, member.CalendarIdentity, *slot.ExternalEventID, calendar.EventPatch{
			Title:       &title,
			Description: &description,
		})
		cancel()
		if err != nil {
			s.logger.Error("Failed to update calendar event",
				zap.String("slot_id", slot.ID),
				zap.String("event_id", *slot.ExternalEventID),
				zap.Error(err))
			return nil, calendar.Wrap("update", member.CalendarIdentity, *slot.ExternalEventID, err)
		}
		if patched != nil && patched.MeetingLink != "" {
			link := patched.MeetingLink
			updated.MeetingLink = &link
		}
	}

	if err := s.slots.Upsert(ctx, updated); err != nil {
		if memberChanged {
			s.discardEvent(ctx, member, created.EventID, slot.ID)
		}
		return nil, &PersistenceError{Op: "edit", SlotID: slot.ID, Err: err}
	}

	if memberChanged {
		s.deleteSupersededEvent(ctx, slot, *slot.AssignedMemberID, true, "edit")
	}

	s.logger.Info("Scheduled slot edited",
		zap.String("slot_id", updated.ID),
		zap.String("member_id", member.ID),
		zap.Bool("member_changed", memberChanged))

	return updated, nil
}

// ConcludeElapsed переводит назначенные встречи, закончившиеся до now, в concluded
func (s *SchedulingService) ConcludeElapsed(ctx context.Context, now time.Time) (int, error) {
	ended, err := s.slots.ListScheduledEndedBefore(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list ended slots: %w", err)
	}

	var (
		count int
		errs  []error
	)
	for _, slot := range ended {
		ok, err := s.conclude(ctx, slot.ID, now)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			count++
		}
	}

	return count, errors.Join(errs...)
}

func (s *SchedulingService) conclude(ctx context.Context, slotID string, now time.Time) (bool, error) {
	slot, err := s.loadSlot(ctx, slotID)
	if err != nil {
		return false, err
	}

	unlock := s.locks.Lock(slot.RequestGroupID)
	defer unlock()

	slot, err = s.loadSlot(ctx, slotID)
	if err != nil {
		return false, err
	}
	// Слот могли переназначить на другое время, пока ждали блокировку
	if slot.Status != model.SlotStatusScheduled || slot.FinalEndTime == nil || !slot.FinalEndTime.Before(now) {
		return false, nil
	}

	next := slot.Clone()
	next.Status = model.SlotStatusConcluded
	next.ExternalEventID = nil

	if err := s.slots.Upsert(ctx, next); err != nil {
		return false, &PersistenceError{Op: "conclude", SlotID: slot.ID, Err: err}
	}
	return true, nil
}

func (s *SchedulingService) loadSlot(ctx context.Context, slotID string) (*model.BookingSlot, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, &NotFoundError{Entity: "booking", ID: slotID}
	}
	return slot, nil
}

func (s *SchedulingService) loadActiveMember(ctx context.Context, memberID string) (*model.StaffMember, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	if member == nil {
		return nil, &NotFoundError{Entity: "member", ID: memberID}
	}
	if !member.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrMemberInactive, memberID)
	}
	return member, nil
}

func (s *SchedulingService) createEvent(ctx context.Context, member *model.StaffMember, slot *model.BookingSlot, title, description string, start, end time.Time) (*calendar.CreatedEvent, error) {
	if title == "" {
		title = defaultTitle(slot)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	created, err := s.calendar.CreateEvent(callCtx, member.CalendarIdentity, calendar.EventInput{
		Title:          title,
		Description:    description,
		Start:          start,
		End:            end,
		Attendees:      attendees(member, slot),
		WithConference: true,
	})
	if err != nil {
		return nil, calendar.Wrap("create", member.CalendarIdentity, "", err)
	}
	return created, nil
}

// deleteSupersededEvent удаляет событие слота из календаря прежнего сотрудника.
// Ошибки только логируются. Возвращает true если событие удалено.
func (s *SchedulingService) deleteSupersededEvent(ctx context.Context, slot *model.BookingSlot, memberID string, notify bool, op string) bool {
	eventID := *slot.ExternalEventID

	prior, err := s.members.GetByID(ctx, memberID)
	if err != nil || prior == nil {
		s.logger.Warn("Cannot resolve member of superseded event, leaving it in calendar",
			zap.String("op", op),
			zap.String("slot_id", slot.ID),
			zap.String("member_id", memberID),
			zap.String("event_id", eventID),
			zap.Error(err))
		return false
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	if err := s.calendar.DeleteEvent(callCtx, prior.CalendarIdentity, eventID, notify); err != nil {
		s.logger.Warn("Failed to delete superseded calendar event",
			zap.String("op", op),
			zap.String("slot_id", slot.ID),
			zap.String("member_id", memberID),
			zap.String("identity", prior.CalendarIdentity.String()),
			zap.String("event_id", eventID),
			zap.Error(err))
		return false
	}
	return true
}

// discardEvent откатывает только что созданное событие, если решение не удалось сохранить
func (s *SchedulingService) discardEvent(ctx context.Context, member *model.StaffMember, eventID, slotID string) {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.callTimeout)
	defer cancel()

	if err := s.calendar.DeleteEvent(callCtx, member.CalendarIdentity, eventID, true); err != nil {
		s.logger.Warn("Failed to discard orphaned calendar event",
			zap.String("slot_id", slotID),
			zap.String("identity", member.CalendarIdentity.String()),
			zap.String("event_id", eventID),
			zap.Error(err))
	}
}

func (s *SchedulingService) finalWindow(slot *model.BookingSlot) (time.Time, time.Time) {
	start := slot.RequestedStartTime
	if slot.FinalStartTime != nil {
		start = *slot.FinalStartTime
	}
	end := start.Add(s.slotDuration)
	if slot.FinalEndTime != nil {
		end = *slot.FinalEndTime
	}
	return start, end
}

func markRejected(slot *model.BookingSlot, reason string) {
	by := model.RejectedByAdmin
	slot.Status = model.SlotStatusRejected
	slot.RejectionReason = &reason
	slot.RejectedBy = &by
	slot.ExternalEventID = nil
}

func attendees(member *model.StaffMember, slot *model.BookingSlot) []model.MemberIdentity {
	out := []model.MemberIdentity{member.CalendarIdentity}
	if requester := model.NormalizeIdentity(slot.RequesterEmail); !requester.IsZero() && requester != member.CalendarIdentity {
		out = append(out, requester)
	}
	return out
}

func defaultTitle(slot *model.BookingSlot) string {
	if slot.RequesterName != "" {
		return "Meeting with " + slot.RequesterName
	}
	return "Meeting"
}

func groupIDs(slots []*model.BookingSlot) []string {
	ids := make([]string, 0, len(slots))
	for _, slot := range slots {
		ids = append(ids, slot.RequestGroupID)
	}
	return ids
}
