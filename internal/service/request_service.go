package service

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitRequest заявка с несколькими вариантами времени в порядке предпочтения
type SubmitRequest struct {
	RequesterName  string
	RequesterEmail string
	Title          string
	Description    string
	Times          []time.Time
}

// RequestService приём заявок и очередь ожидающих групп
type RequestService struct {
	slots  SlotStore
	newID  func() string
	now    func() time.Time
	logger *zap.Logger
}

func NewRequestService(slots SlotStore, logger *zap.Logger) *RequestService {
	return &RequestService{
		slots:  slots,
		newID:  func() string { return uuid.NewString() },
		now:    time.Now,
		logger: logger,
	}
}

// Submit создаёт группу заявок: по слоту на каждое время, приоритет равен позиции
func (s *RequestService) Submit(ctx context.Context, req SubmitRequest) (*model.RequestGroup, error) {
	if err := validateSubmit(req); err != nil {
		return nil, err
	}

	groupID := s.newID()
	now := s.now().UTC()
	email := model.NormalizeIdentity(req.RequesterEmail).String()

	slots := make([]*model.BookingSlot, 0, len(req.Times))
	for i, at := range req.Times {
		priority := i + 1
		slot := &model.BookingSlot{
			ID:                 s.newID(),
			RequestGroupID:     groupID,
			RequesterName:      strings.TrimSpace(req.RequesterName),
			RequesterEmail:     email,
			Title:              strings.TrimSpace(req.Title),
			Description:        req.Description,
			RequestedStartTime: at.UTC(),
			PriorityLevel:      &priority,
			Status:             model.SlotStatusRequested,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := s.slots.Upsert(ctx, slot); err != nil {
			return nil, &PersistenceError{Op: "submit", SlotID: slot.ID, Err: err}
		}
		slots = append(slots, slot)
	}

	s.logger.Info("Request submitted",
		zap.String("group_id", groupID),
		zap.String("requester", email),
		zap.Int("slots", len(slots)))

	return model.NewRequestGroup(groupID, slots), nil
}

// ListOpenGroups группы, ожидающие решения, в порядке появления
func (s *RequestService) ListOpenGroups(ctx context.Context) ([]*model.RequestGroup, error) {
	slots, err := s.slots.ListOpenGroupSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open groups: %w", err)
	}

	var (
		order  []string
		byID   = make(map[string][]*model.BookingSlot)
		groups []*model.RequestGroup
	)
	for _, slot := range slots {
		if _, ok := byID[slot.RequestGroupID]; !ok {
			order = append(order, slot.RequestGroupID)
		}
		byID[slot.RequestGroupID] = append(byID[slot.RequestGroupID], slot)
	}

	for _, id := range order {
		group := model.NewRequestGroup(id, sortByPriority(byID[id]))
		if group.Status != model.GroupStatusRequested {
			continue
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// GetGroup группа по id группы или id любого её слота
func (s *RequestService) GetGroup(ctx context.Context, id string) (*model.RequestGroup, error) {
	slots, err := s.slots.GetByGroup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	if len(slots) == 0 {
		return nil, &NotFoundError{Entity: "request group", ID: id}
	}
	return model.NewRequestGroup(slots[0].RequestGroupID, sortByPriority(slots)), nil
}

func validateSubmit(req SubmitRequest) error {
	if len(req.Times) == 0 {
		return fmt.Errorf("%w: at least one time is required", ErrInvalidRequest)
	}
	if model.NormalizeIdentity(req.RequesterEmail).IsZero() || !strings.Contains(req.RequesterEmail, "@") {
		return fmt.Errorf("%w: requester email is required", ErrInvalidRequest)
	}
	for i, at := range req.Times {
		if at.IsZero() {
			return fmt.Errorf("%w: time #%d is empty", ErrInvalidRequest, i+1)
		}
		for _, prev := range req.Times[:i] {
			if prev.Equal(at) {
				return fmt.Errorf("%w: duplicate time %s", ErrInvalidRequest, at.Format(time.RFC3339))
			}
		}
	}
	return nil
}

func sortByPriority(slots []*model.BookingSlot) []*model.BookingSlot {
	sorted := slices.Clone(slots)
	slices.SortStableFunc(sorted, func(a, b *model.BookingSlot) int {
		if pa, pb := priorityRank(a), priorityRank(b); pa != pb {
			return pa - pb
		}
		return a.RequestedStartTime.Compare(b.RequestedStartTime)
	})
	return sorted
}

// слоты без приоритета идут последними
func priorityRank(slot *model.BookingSlot) int {
	if slot.PriorityLevel == nil {
		return math.MaxInt32
	}
	return *slot.PriorityLevel
}
