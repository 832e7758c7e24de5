// Package wizard описывает многошаговую синхронизацию справочника
// сотрудников как конечный автомат.
//
// Состояние передаётся по значению, каждый шаг это чистая функция
// Transition(state, input). Хранить состояние между сообщениями
// бота и применять итоговый план должен вызывающий код.
package wizard

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
)

type Step string

const (
	StepIdle      Step = ""
	StepTimezone  Step = "timezone"
	StepMembers   Step = "members"
	StepReview    Step = "review"
	StepDone      Step = "done"
	StepCancelled Step = "cancelled"
)

// Finished сообщает что автомат в конечном состоянии
func (s Step) Finished() bool {
	return s == StepDone || s == StepCancelled
}

var (
	ErrUnexpectedInput = errors.New("input is not allowed at this step")
	ErrUnknownTimezone = errors.New("timezone is not offered")
	ErrUnknownMember   = errors.New("member is not in the directory")
	ErrNothingSelected = errors.New("no members selected")
)

// State снимок мастера синхронизации
type State struct {
	Step      Step
	Timezones []string
	Timezone  string
	Members   []model.StaffMember
	// Selected id сотрудников, которые останутся активными
	Selected map[string]bool
	// Availability свободен ли сотрудник сейчас, заполняется на шаге review
	Availability map[string]bool
	CheckedAt    time.Time
}

// Input событие мастера
type Input interface {
	isInput()
}

// Start открывает мастер. Выбор изначально совпадает с активными сотрудниками.
type Start struct {
	Timezones []string
	Members   []model.StaffMember
}

type ChooseTimezone struct {
	Name string
}

type ToggleMember struct {
	ID string
}

type ConfirmMembers struct{}

// AvailabilityLoaded результат проверки календарей выбранных сотрудников
type AvailabilityLoaded struct {
	Free      map[string]bool
	CheckedAt time.Time
}

type Confirm struct{}

type Back struct{}

type Cancel struct{}

func (Start) isInput()              {}
func (ChooseTimezone) isInput()     {}
func (ToggleMember) isInput()       {}
func (ConfirmMembers) isInput()     {}
func (AvailabilityLoaded) isInput() {}
func (Confirm) isInput()            {}
func (Back) isInput()               {}
func (Cancel) isInput()             {}

// Transition возвращает следующее состояние. Исходное состояние не меняется.
// При ошибке возвращается копия исходного состояния.
func Transition(state State, input Input) (State, error) {
	next := state.clone()

	switch in := input.(type) {
	case Start:
		if state.Step != StepIdle && !state.Step.Finished() {
			return next, unexpected(state.Step, input)
		}
		selected := make(map[string]bool)
		for _, m := range in.Members {
			if m.IsActive {
				selected[m.ID] = true
			}
		}
		return State{
			Step:      StepTimezone,
			Timezones: slices.Clone(in.Timezones),
			Members:   slices.Clone(in.Members),
			Selected:  selected,
		}, nil

	case ChooseTimezone:
		if state.Step != StepTimezone {
			return next, unexpected(state.Step, input)
		}
		if len(state.Timezones) > 0 && !slices.Contains(state.Timezones, in.Name) {
			return next, fmt.Errorf("%w: %s", ErrUnknownTimezone, in.Name)
		}
		next.Timezone = in.Name
		next.Step = StepMembers
		return next, nil

	case ToggleMember:
		if state.Step != StepMembers {
			return next, unexpected(state.Step, input)
		}
		if !slices.ContainsFunc(state.Members, func(m model.StaffMember) bool { return m.ID == in.ID }) {
			return next, fmt.Errorf("%w: %s", ErrUnknownMember, in.ID)
		}
		if next.Selected[in.ID] {
			delete(next.Selected, in.ID)
		} else {
			next.Selected[in.ID] = true
		}
		return next, nil

	case ConfirmMembers:
		if state.Step != StepMembers {
			return next, unexpected(state.Step, input)
		}
		if len(state.Selected) == 0 {
			return next, ErrNothingSelected
		}
		next.Step = StepReview
		next.Availability = nil
		return next, nil

	case AvailabilityLoaded:
		if state.Step != StepReview {
			return next, unexpected(state.Step, input)
		}
		next.Availability = maps.Clone(in.Free)
		next.CheckedAt = in.CheckedAt
		return next, nil

	case Confirm:
		if state.Step != StepReview {
			return next, unexpected(state.Step, input)
		}
		next.Step = StepDone
		return next, nil

	case Back:
		switch state.Step {
		case StepMembers:
			next.Step = StepTimezone
		case StepReview:
			next.Step = StepMembers
			next.Availability = nil
		default:
			return next, unexpected(state.Step, input)
		}
		return next, nil

	case Cancel:
		if state.Step == StepIdle || state.Step.Finished() {
			return next, unexpected(state.Step, input)
		}
		next.Step = StepCancelled
		return next, nil
	}

	return next, fmt.Errorf("%w: unknown input %T", ErrUnexpectedInput, input)
}

// Plan изменения справочника, которые применяются после подтверждения
type Plan struct {
	Timezone   string
	Activate   []string
	Deactivate []string
}

// IsEmpty план ничего не меняет
func (p Plan) IsEmpty() bool {
	return len(p.Activate) == 0 && len(p.Deactivate) == 0
}

// Plan собирает план в порядке справочника. Выбранные сотрудники активируются
// (им проставляется таймзона), остальные активные выключаются.
func (s State) Plan() Plan {
	plan := Plan{Timezone: s.Timezone}
	for _, m := range s.Members {
		switch {
		case s.Selected[m.ID]:
			plan.Activate = append(plan.Activate, m.ID)
		case m.IsActive:
			plan.Deactivate = append(plan.Deactivate, m.ID)
		}
	}
	return plan
}

// SelectedMembers выбранные сотрудники в порядке справочника
func (s State) SelectedMembers() []model.StaffMember {
	var out []model.StaffMember
	for _, m := range s.Members {
		if s.Selected[m.ID] {
			out = append(out, m)
		}
	}
	return out
}

func (s State) clone() State {
	c := s
	c.Timezones = slices.Clone(s.Timezones)
	c.Members = slices.Clone(s.Members)
	c.Selected = maps.Clone(s.Selected)
	if c.Selected == nil {
		c.Selected = make(map[string]bool)
	}
	c.Availability = maps.Clone(s.Availability)
	return c
}

func unexpected(step Step, input Input) error {
	return fmt.Errorf("%w: %T at step %q", ErrUnexpectedInput, input, step)
}
