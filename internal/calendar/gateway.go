// Package calendar описывает внешний календарный сервис, через который
// создаются встречи. Каждый вызов выполняется от имени конкретного
// сотрудника (имперсонация по его календарному идентификатору).
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
)

// Gateway операции с календарём сотрудника
type Gateway interface {
	ListEvents(ctx context.Context, identity model.MemberIdentity, windowStart, windowEnd time.Time) ([]model.BusyInterval, error)
	CreateEvent(ctx context.Context, identity model.MemberIdentity, event EventInput) (*CreatedEvent, error)
	UpdateEvent(ctx context.Context, identity model.MemberIdentity, eventID string, patch EventPatch) (*UpdatedEvent, error)
	DeleteEvent(ctx context.Context, identity model.MemberIdentity, eventID string, notifyAttendees bool) error
}

// EventInput новое событие
type EventInput struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []model.MemberIdentity
	// WithConference запрашивает генерацию ссылки на видеовстречу
	WithConference bool
}

// EventPatch частичное обновление события, nil поля не меняются
type EventPatch struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
}

type CreatedEvent struct {
	EventID     string
	MeetingLink string
}

type UpdatedEvent struct {
	MeetingLink string
}

// ProviderError ошибка календарного провайдера (авторизация, сеть, таймаут)
type ProviderError struct {
	Op       string
	Identity model.MemberIdentity
	EventID  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.EventID != "" {
		return fmt.Sprintf("calendar %s for %s (event %s): %v", e.Op, e.Identity, e.EventID, e.Err)
	}
	return fmt.Sprintf("calendar %s for %s: %v", e.Op, e.Identity, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError проверяет что в цепочке есть ProviderError
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// Wrap оборачивает ошибку в ProviderError, уже обёрнутые ошибки не трогает
func Wrap(op string, identity model.MemberIdentity, eventID string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Op: op, Identity: identity, EventID: eventID, Err: err}
}
