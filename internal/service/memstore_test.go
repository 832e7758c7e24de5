package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
)

var errStoreDown = errors.New("store is down")

// memSlots хранилище слотов в памяти, сохраняет порядок вставки
type memSlots struct {
	mu         sync.Mutex
	order      []string
	slots      map[string]*model.BookingSlot
	failUpsert map[string]bool
	upserts    int
}

func newMemSlots(slots ...*model.BookingSlot) *memSlots {
	s := &memSlots{
		slots:      make(map[string]*model.BookingSlot),
		failUpsert: make(map[string]bool),
	}
	for _, slot := range slots {
		s.put(slot)
	}
	return s
}

func (s *memSlots) put(slot *model.BookingSlot) {
	if _, ok := s.slots[slot.ID]; !ok {
		s.order = append(s.order, slot.ID)
	}
	s.slots[slot.ID] = slot.Clone()
}

func (s *memSlots) get(id string) *model.BookingSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot, ok := s.slots[id]; ok {
		return slot.Clone()
	}
	return nil
}

func (s *memSlots) GetByID(_ context.Context, id string) (*model.BookingSlot, error) {
	return s.get(id), nil
}

func (s *memSlots) GetByGroup(_ context.Context, groupOrSlotID string) ([]*model.BookingSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*model.BookingSlot
	for _, id := range s.order {
		slot := s.slots[id]
		if slot.ID == groupOrSlotID || slot.RequestGroupID == groupOrSlotID {
			out = append(out, slot.Clone())
		}
	}
	return out, nil
}

func (s *memSlots) Upsert(_ context.Context, slot *model.BookingSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failUpsert[slot.ID] {
		return errStoreDown
	}
	s.upserts++
	s.put(slot)
	return nil
}

func (s *memSlots) ListOpenGroupSlots(_ context.Context) ([]*model.BookingSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open := make(map[string]bool)
	for _, slot := range s.slots {
		if slot.Status == model.SlotStatusRequested {
			open[slot.RequestGroupID] = true
		}
	}

	var out []*model.BookingSlot
	for _, id := range s.order {
		if slot := s.slots[id]; open[slot.RequestGroupID] {
			out = append(out, slot.Clone())
		}
	}
	return out, nil
}

func (s *memSlots) ListScheduledEndedBefore(_ context.Context, before time.Time) ([]*model.BookingSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*model.BookingSlot
	for _, id := range s.order {
		slot := s.slots[id]
		if slot.Status == model.SlotStatusScheduled && slot.FinalEndTime != nil && slot.FinalEndTime.Before(before) {
			out = append(out, slot.Clone())
		}
	}
	return out, nil
}

// memMembers справочник сотрудников в памяти
type memMembers struct {
	mu      sync.Mutex
	members []*model.StaffMember
	failAll bool
}

func newMemMembers(members ...*model.StaffMember) *memMembers {
	return &memMembers{members: members}
}

func (m *memMembers) GetByID(_ context.Context, id string) (*model.StaffMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range m.members {
		if member.ID == id {
			c := *member
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memMembers) GetByIdentity(_ context.Context, identity model.MemberIdentity) (*model.StaffMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range m.members {
		if member.CalendarIdentity == identity {
			c := *member
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memMembers) ListActive(_ context.Context) ([]*model.StaffMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.StaffMember
	for _, member := range m.members {
		if member.IsActive {
			c := *member
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memMembers) ListAll(_ context.Context) ([]*model.StaffMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.StaffMember, 0, len(m.members))
	for _, member := range m.members {
		c := *member
		out = append(out, &c)
	}
	return out, nil
}

func (m *memMembers) Upsert(_ context.Context, member *model.StaffMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errStoreDown
	}
	c := *member
	for i, existing := range m.members {
		if existing.ID == member.ID {
			m.members[i] = &c
			return nil
		}
	}
	m.members = append(m.members, &c)
	return nil
}

func (m *memMembers) ApplyActivation(_ context.Context, activate, deactivate []string, tz string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errStoreDown
	}
	for _, member := range m.members {
		switch {
		case slices.Contains(activate, member.ID):
			member.IsActive = true
			member.Timezone = tz
		case slices.Contains(deactivate, member.ID):
			member.IsActive = false
		}
	}
	return nil
}

// recordingNotifier запоминает уведомления
type recordingNotifier struct {
	mu        sync.Mutex
	scheduled []string
	rejected  [][]string
	fail      bool
}

func (n *recordingNotifier) SlotScheduled(_ context.Context, slot *model.BookingSlot, _ *model.StaffMember) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scheduled = append(n.scheduled, slot.ID)
	if n.fail {
		return errors.New("notifier is down")
	}
	return nil
}

func (n *recordingNotifier) SlotsRejected(_ context.Context, slots []*model.BookingSlot, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	ids := make([]string, 0, len(slots))
	for _, slot := range slots {
		ids = append(ids, slot.ID)
	}
	n.rejected = append(n.rejected, ids)
	if n.fail {
		return errors.New("notifier is down")
	}
	return nil
}

func staff(id, identity string, active bool) *model.StaffMember {
	return &model.StaffMember{
		ID:               id,
		DisplayName:      id,
		CalendarIdentity: model.NormalizeIdentity(identity),
		IsActive:         active,
	}
}

func requestedSlot(id, group string, priority int, start time.Time) *model.BookingSlot {
	return &model.BookingSlot{
		ID:                 id,
		RequestGroupID:     group,
		RequesterName:      "Ivan",
		RequesterEmail:     "ivan@client.test",
		Title:              "Intro call",
		RequestedStartTime: start,
		PriorityLevel:      &priority,
		Status:             model.SlotStatusRequested,
	}
}
