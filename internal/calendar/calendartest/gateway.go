// Package calendartest содержит календарь в памяти для тестов
package calendartest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/calendar"
	"github.com/Freeeeeet/staff_scheduler/internal/model"
)

// ErrInjected ошибка, которую возвращают операции с включённым сбоем
var ErrInjected = errors.New("injected provider failure")

// Event событие, хранящееся в фейковом календаре
type Event struct {
	ID          string
	Identity    model.MemberIdentity
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []model.MemberIdentity
	MeetingLink string
}

// Call запись о вызове для проверок в тестах
type Call struct {
	Op       string
	Identity model.MemberIdentity
	EventID  string
	Notify   bool
}

// Gateway потокобезопасная реализация calendar.Gateway в памяти
type Gateway struct {
	mu     sync.Mutex
	seq    int
	events map[string]*Event
	busy   map[model.MemberIdentity][]model.BusyInterval
	fail   map[string]map[model.MemberIdentity]bool
	calls  []Call
}

var _ calendar.Gateway = (*Gateway)(nil)

func New() *Gateway {
	return &Gateway{
		events: make(map[string]*Event),
		busy:   make(map[model.MemberIdentity][]model.BusyInterval),
		fail:   make(map[string]map[model.MemberIdentity]bool),
	}
}

// AddBusy добавляет занятость, не связанную с событиями шлюза
func (g *Gateway) AddBusy(identity model.MemberIdentity, start, end time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.busy[identity] = append(g.busy[identity], model.BusyInterval{Start: start, End: end})
}

// Fail включает сбой операции op ("list", "create", "update", "delete") для identity.
// Пустой identity означает любой календарь.
func (g *Gateway) Fail(op string, identity model.MemberIdentity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail[op] == nil {
		g.fail[op] = make(map[model.MemberIdentity]bool)
	}
	g.fail[op][identity] = true
}

// Heal выключает все сбои
func (g *Gateway) Heal() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fail = make(map[string]map[model.MemberIdentity]bool)
}

func (g *Gateway) failing(op string, identity model.MemberIdentity) bool {
	byIdentity := g.fail[op]
	return byIdentity[identity] || byIdentity[""]
}

func (g *Gateway) record(call Call) {
	g.calls = append(g.calls, call)
}

// Calls возвращает копию журнала вызовов
func (g *Gateway) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Call(nil), g.calls...)
}

// CallsOf возвращает вызовы операции op
func (g *Gateway) CallsOf(op string) []Call {
	var out []Call
	for _, call := range g.Calls() {
		if call.Op == op {
			out = append(out, call)
		}
	}
	return out
}

// Event возвращает событие по ID
func (g *Gateway) Event(id string) (Event, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	event, ok := g.events[id]
	if !ok {
		return Event{}, false
	}
	return *event, true
}

// EventCount количество существующих событий
func (g *Gateway) EventCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.events)
}

func (g *Gateway) ListEvents(ctx context.Context, identity model.MemberIdentity, windowStart, windowEnd time.Time) ([]model.BusyInterval, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record(Call{Op: "list", Identity: identity})

	if err := ctx.Err(); err != nil {
		return nil, calendar.Wrap("list", identity, "", err)
	}
	if g.failing("list", identity) {
		return nil, calendar.Wrap("list", identity, "", ErrInjected)
	}

	var out []model.BusyInterval
	for _, interval := range g.busy[identity] {
		if interval.Start.Before(windowEnd) && interval.End.After(windowStart) {
			out = append(out, interval)
		}
	}
	for _, event := range g.events {
		if event.Identity == identity && event.Start.Before(windowEnd) && event.End.After(windowStart) {
			out = append(out, model.BusyInterval{Start: event.Start, End: event.End})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (g *Gateway) CreateEvent(ctx context.Context, identity model.MemberIdentity, input calendar.EventInput) (*calendar.CreatedEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record(Call{Op: "create", Identity: identity})

	if err := ctx.Err(); err != nil {
		return nil, calendar.Wrap("create", identity, "", err)
	}
	if g.failing("create", identity) {
		return nil, calendar.Wrap("create", identity, "", ErrInjected)
	}

	g.seq++
	event := &Event{
		ID:          fmt.Sprintf("evt-%d", g.seq),
		Identity:    identity,
		Title:       input.Title,
		Description: input.Description,
		Start:       input.Start,
		End:         input.End,
		Attendees:   append([]model.MemberIdentity(nil), input.Attendees...),
	}
	if input.WithConference {
		event.MeetingLink = fmt.Sprintf("https://meet.example.com/%s", event.ID)
	}
	g.events[event.ID] = event

	return &calendar.CreatedEvent{EventID: event.ID, MeetingLink: event.MeetingLink}, nil
}

func (g *Gateway) UpdateEvent(ctx context.Context, identity model.MemberIdentity, eventID string, patch calendar.EventPatch) (*calendar.UpdatedEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record(Call{Op: "update", Identity: identity, EventID: eventID})

	if err := ctx.Err(); err != nil {
		return nil, calendar.Wrap("update", identity, eventID, err)
	}
	if g.failing("update", identity) {
		return nil, calendar.Wrap("update", identity, eventID, ErrInjected)
	}

	event, ok := g.events[eventID]
	if !ok || event.Identity != identity {
		return nil, calendar.Wrap("update", identity, eventID, fmt.Errorf("event not found"))
	}
	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Start != nil {
		event.Start = *patch.Start
	}
	if patch.End != nil {
		event.End = *patch.End
	}

	return &calendar.UpdatedEvent{MeetingLink: event.MeetingLink}, nil
}

func (g *Gateway) DeleteEvent(ctx context.Context, identity model.MemberIdentity, eventID string, notifyAttendees bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record(Call{Op: "delete", Identity: identity, EventID: eventID, Notify: notifyAttendees})

	if err := ctx.Err(); err != nil {
		return calendar.Wrap("delete", identity, eventID, err)
	}
	if g.failing("delete", identity) {
		return calendar.Wrap("delete", identity, eventID, ErrInjected)
	}

	event, ok := g.events[eventID]
	if !ok || event.Identity != identity {
		return calendar.Wrap("delete", identity, eventID, fmt.Errorf("event not found"))
	}
	delete(g.events, eventID)
	return nil
}
