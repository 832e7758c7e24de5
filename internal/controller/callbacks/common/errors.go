package common

import (
	"errors"

	"github.com/Freeeeeet/staff_scheduler/internal/calendar"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/Freeeeeet/staff_scheduler/internal/wizard"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage       = errors.New("no message in callback")
	ErrInvalidFormat   = errors.New("invalid callback format")
	ErrRosterExpired   = errors.New("roster context expired")
	ErrNoWizardRunning = errors.New("sync wizard is not running")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var nf *service.NotFoundError
	switch {
	case errors.As(err, &nf):
		switch nf.Entity {
		case "member":
			return "❌ Сотрудник не найден"
		default:
			return "❌ Заявка не найдена"
		}
	case errors.Is(err, service.ErrMemberInactive):
		return "❌ Сотрудник неактивен"
	case errors.Is(err, service.ErrInvalidTransition):
		return "❌ Заявка уже закрыта, действие недоступно"
	case errors.Is(err, service.ErrInvalidRequest):
		return "❌ Некорректные данные"
	case calendar.IsProviderError(err):
		return "❌ Календарь недоступен, попробуйте позже"
	case service.IsPersistence(err):
		return "❌ Не удалось сохранить изменения"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrRosterExpired):
		return "❌ Ростер устарел, откройте его заново"
	case errors.Is(err, ErrNoWizardRunning):
		return "❌ Синхронизация не запущена, используйте /sync"
	case errors.Is(err, wizard.ErrNothingSelected):
		return "❌ Выберите хотя бы одного сотрудника"
	case errors.Is(err, wizard.ErrUnexpectedInput):
		return "❌ Этот шаг уже пройден"
	default:
		return "❌ Произошла ошибка"
	}
}
