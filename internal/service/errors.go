package service

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/staff_scheduler/internal/calendar"
)

var (
	ErrMemberInactive    = errors.New("staff member is inactive")
	ErrInvalidTransition = errors.New("invalid slot status transition")
	ErrInvalidRequest    = errors.New("invalid request")
)

// NotFoundError слот или сотрудник не найден, операция прерывается до записи
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// PersistenceError ошибка записи в хранилище
type PersistenceError struct {
	Op     string
	SlotID string
	Err    error
}

func (e *PersistenceError) Error() string {
	if e.SlotID != "" {
		return fmt.Sprintf("persist %s for slot %s: %v", e.Op, e.SlotID, e.Err)
	}
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsNotFound проверяет что в цепочке есть NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsPersistence проверяет что в цепочке есть PersistenceError
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// Result итог операции для UI: {success, message}
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ResultOf превращает ошибку операции в структурированный результат
func ResultOf(err error) Result {
	switch {
	case err == nil:
		return Result{Success: true, Message: "ok"}
	case IsNotFound(err):
		return Result{Message: err.Error()}
	case calendar.IsProviderError(err):
		return Result{Message: "calendar provider error: " + err.Error()}
	case IsPersistence(err):
		return Result{Message: "storage error: " + err.Error()}
	default:
		return Result{Message: err.Error()}
	}
}
