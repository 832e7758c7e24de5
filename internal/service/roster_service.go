package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/availability"
	"github.com/Freeeeeet/staff_scheduler/internal/calendar"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/timezone"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultRosterConcurrency = 8

// RosterOptions параметры проверки ростера
type RosterOptions struct {
	SlotDuration    time.Duration
	CallTimeout     time.Duration
	Concurrency     int
	DefaultTimezone string
}

// MemberAvailability доступность одного сотрудника для слота
type MemberAvailability struct {
	Member model.StaffMember
	// Available точная проверка пересечения интервалов
	Available bool
	// FreeAtHour грубая проверка "тот же день, тот же час"
	FreeAtHour bool
	// FetchFailed календарь не удалось прочитать, сотрудник считается свободным
	FetchFailed bool
	Busy        []model.BusyInterval
}

// Roster ранжированный список сотрудников для момента времени
type Roster struct {
	SlotID   string
	Start    time.Time
	End      time.Time
	Timezone string
	Members  []MemberAvailability
}

// RosterService собирает занятость активных сотрудников из календаря
type RosterService struct {
	slots           SlotStore
	members         MemberStore
	calendar        calendar.Gateway
	slotDuration    time.Duration
	callTimeout     time.Duration
	concurrency     int
	defaultTimezone string
	logger          *zap.Logger
}

func NewRosterService(slots SlotStore, members MemberStore, gateway calendar.Gateway, opts RosterOptions, logger *zap.Logger) *RosterService {
	if opts.SlotDuration <= 0 {
		opts.SlotDuration = availability.DefaultSlotDuration
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaultCallTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultRosterConcurrency
	}
	return &RosterService{
		slots:           slots,
		members:         members,
		calendar:        gateway,
		slotDuration:    opts.SlotDuration,
		callTimeout:     opts.CallTimeout,
		concurrency:     opts.Concurrency,
		defaultTimezone: opts.DefaultTimezone,
		logger:          logger,
	}
}

// CheckSlot ростер для запрошенного времени слота
func (s *RosterService) CheckSlot(ctx context.Context, slotID, tzName string) (*Roster, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, &NotFoundError{Entity: "booking", ID: slotID}
	}

	start := slot.RequestedStartTime
	if slot.FinalStartTime != nil {
		start = *slot.FinalStartTime
	}

	roster, err := s.CheckInstant(ctx, start, tzName)
	if err != nil {
		return nil, err
	}
	roster.SlotID = slot.ID
	return roster, nil
}

// CheckInstant ростер активных сотрудников для произвольного момента.
// Сначала свободные, порядок внутри групп совпадает с порядком справочника.
func (s *RosterService) CheckInstant(ctx context.Context, start time.Time, tzName string) (*Roster, error) {
	members, err := s.members.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active members: %w", err)
	}

	list := make([]model.StaffMember, 0, len(members))
	for _, m := range members {
		list = append(list, *m)
	}
	return s.CheckMembers(ctx, list, start, tzName), nil
}

// CheckMembers ростер для заданного списка сотрудников. Неактивные
// сотрудники попадают в конец как занятые.
func (s *RosterService) CheckMembers(ctx context.Context, members []model.StaffMember, start time.Time, tzName string) *Roster {
	if tzName == "" {
		tzName = s.defaultTimezone
	}

	end := start.Add(s.slotDuration)
	windowStart, windowEnd := timezone.DayBounds(start, tzName)
	if end.After(windowEnd) {
		windowEnd = end
	}

	busy, failed := s.fetchBusy(ctx, members, windowStart, windowEnd)
	ranked := availability.RankByAvailability(members, start, busy, s.slotDuration)

	roster := &Roster{
		Start:    start,
		End:      end,
		Timezone: tzName,
		Members:  make([]MemberAvailability, 0, len(ranked)),
	}
	for _, m := range ranked {
		roster.Members = append(roster.Members, MemberAvailability{
			Member:      m,
			Available:   availability.IsAvailable(m, start, busy[m.ID], s.slotDuration),
			FreeAtHour:  availability.IsFreeAtHour(m, start, busy[m.ID], tzName),
			FetchFailed: failed[m.ID],
			Busy:        busy[m.ID],
		})
	}

	s.logger.Debug("Roster checked",
		zap.Time("start", start),
		zap.String("timezone", tzName),
		zap.Int("members", len(roster.Members)),
		zap.Int("fetch_failures", len(failed)))

	return roster
}

// fetchBusy читает календари параллельно. Ошибка чтения одного календаря
// не прерывает остальные.
func (s *RosterService) fetchBusy(ctx context.Context, members []model.StaffMember, from, to time.Time) (map[string][]model.BusyInterval, map[string]bool) {
	var (
		mu     sync.Mutex
		busy   = make(map[string][]model.BusyInterval, len(members))
		failed = make(map[string]bool)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, member := range members {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, s.callTimeout)
			defer cancel()

			intervals, err := s.calendar.ListEvents(callCtx, member.CalendarIdentity, from, to)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("Failed to fetch member calendar, treating as free",
					zap.String("member_id", member.ID),
					zap.String("identity", member.CalendarIdentity.String()),
					zap.Error(err))
				failed[member.ID] = true
				return nil
			}
			busy[member.ID] = intervals
			return nil
		})
	}
	_ = g.Wait()

	return busy, failed
}
