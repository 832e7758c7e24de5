package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/timezone"
	"github.com/Freeeeeet/staff_scheduler/internal/wizard"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DirectoryService справочник сотрудников в том объёме, который нужен планировщику
type DirectoryService struct {
	members MemberStore
	newID   func() string
	logger  *zap.Logger
}

func NewDirectoryService(members MemberStore, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{
		members: members,
		newID:   func() string { return uuid.NewString() },
		logger:  logger,
	}
}

// AddMember заводит сотрудника или обновляет имя и цвет существующего
// с тем же календарным идентификатором. Новый сотрудник сразу активен.
func (s *DirectoryService) AddMember(ctx context.Context, name, rawIdentity, colorTag string) (*model.StaffMember, error) {
	name = strings.TrimSpace(name)
	identity := model.NormalizeIdentity(rawIdentity)
	if name == "" || !strings.Contains(identity.String(), "@") {
		return nil, fmt.Errorf("%w: member needs a name and an email identity", ErrInvalidRequest)
	}

	member, err := s.members.GetByIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("get member by identity: %w", err)
	}
	if member == nil {
		member = &model.StaffMember{
			ID:               s.newID(),
			CalendarIdentity: identity,
			IsActive:         true,
		}
	}
	member.DisplayName = name
	if colorTag != "" {
		member.ColorTag = colorTag
	}

	if err := s.members.Upsert(ctx, member); err != nil {
		return nil, &PersistenceError{Op: "add member", Err: err}
	}

	s.logger.Info("Member saved",
		zap.String("member_id", member.ID),
		zap.String("identity", identity.String()))
	return member, nil
}

// ListMembers все сотрудники, включая неактивных
func (s *DirectoryService) ListMembers(ctx context.Context) ([]model.StaffMember, error) {
	members, err := s.members.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	out := make([]model.StaffMember, 0, len(members))
	for _, m := range members {
		out = append(out, *m)
	}
	return out, nil
}

// FindByIdentity ищет сотрудника по календарному идентификатору в любом написании
func (s *DirectoryService) FindByIdentity(ctx context.Context, raw string) (*model.StaffMember, error) {
	identity := model.NormalizeIdentity(raw)
	if identity.IsZero() {
		return nil, fmt.Errorf("%w: empty identity", ErrInvalidRequest)
	}

	member, err := s.members.GetByIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("get member by identity: %w", err)
	}
	if member == nil {
		return nil, &NotFoundError{Entity: "member", ID: identity.String()}
	}
	return member, nil
}

// ApplySync применяет план мастера синхронизации
func (s *DirectoryService) ApplySync(ctx context.Context, plan wizard.Plan) error {
	if plan.Timezone != "" && !timezone.Valid(plan.Timezone) {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidRequest, plan.Timezone)
	}
	if plan.IsEmpty() {
		return nil
	}

	if err := s.members.ApplyActivation(ctx, plan.Activate, plan.Deactivate, plan.Timezone); err != nil {
		return &PersistenceError{Op: "sync members", Err: err}
	}

	s.logger.Info("Directory synced",
		zap.String("timezone", plan.Timezone),
		zap.Int("activated", len(plan.Activate)),
		zap.Int("deactivated", len(plan.Deactivate)))

	return nil
}
