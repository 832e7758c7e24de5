package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/Freeeeeet/staff_scheduler/internal/timezone"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const primaryCalendar = "primary"

// GoogleConfig учётные данные сервисного аккаунта с делегированием на домен
type GoogleConfig struct {
	ClientEmail string
	PrivateKey  string
	// Timezone используется для событий на весь день, у которых нет времени
	Timezone string
}

// Google реализация Gateway поверх Google Calendar API.
// Один сервисный аккаунт, на каждый вызов - имперсонация сотрудника.
type Google struct {
	cfg    GoogleConfig
	logger *zap.Logger
}

func NewGoogle(cfg GoogleConfig, logger *zap.Logger) (*Google, error) {
	if cfg.ClientEmail == "" || cfg.PrivateKey == "" {
		return nil, fmt.Errorf("google calendar credentials are not configured")
	}
	return &Google{cfg: cfg, logger: logger}, nil
}

// service создаёт клиент, действующий от имени identity
func (g *Google) service(ctx context.Context, identity model.MemberIdentity) (*gcal.Service, error) {
	if identity.IsZero() {
		return nil, fmt.Errorf("empty calendar identity")
	}

	conf := &jwt.Config{
		Email:      g.cfg.ClientEmail,
		PrivateKey: []byte(g.cfg.PrivateKey),
		Scopes:     []string{gcal.CalendarScope},
		TokenURL:   google.JWTTokenURL,
		Subject:    identity.String(),
	}

	svc, err := gcal.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return svc, nil
}

// ListEvents возвращает занятые интервалы сотрудника в окне
func (g *Google) ListEvents(ctx context.Context, identity model.MemberIdentity, windowStart, windowEnd time.Time) ([]model.BusyInterval, error) {
	svc, err := g.service(ctx, identity)
	if err != nil {
		return nil, Wrap("list", identity, "", err)
	}

	var busy []model.BusyInterval
	call := svc.Events.List(primaryCalendar).
		TimeMin(windowStart.Format(time.RFC3339)).
		TimeMax(windowEnd.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	err = call.Pages(ctx, func(page *gcal.Events) error {
		for _, item := range page.Items {
			interval, ok := busyInterval(item, g.cfg.Timezone)
			if !ok {
				continue
			}
			busy = append(busy, interval)
		}
		return nil
	})
	if err != nil {
		return nil, Wrap("list", identity, "", err)
	}

	return busy, nil
}

// CreateEvent создаёт событие в календаре identity и приглашает участников
func (g *Google) CreateEvent(ctx context.Context, identity model.MemberIdentity, event EventInput) (*CreatedEvent, error) {
	svc, err := g.service(ctx, identity)
	if err != nil {
		return nil, Wrap("create", identity, "", err)
	}

	body := &gcal.Event{
		Summary:     event.Title,
		Description: event.Description,
		Start:       &gcal.EventDateTime{DateTime: event.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: event.End.Format(time.RFC3339)},
	}
	for _, attendee := range event.Attendees {
		if attendee.IsZero() {
			continue
		}
		body.Attendees = append(body.Attendees, &gcal.EventAttendee{Email: attendee.String()})
	}

	call := svc.Events.Insert(primaryCalendar, body).SendUpdates("all")
	if event.WithConference {
		body.ConferenceData = &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId:             uuid.NewString(),
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		}
		call = call.ConferenceDataVersion(1)
	}

	created, err := call.Context(ctx).Do()
	if err != nil {
		return nil, Wrap("create", identity, "", err)
	}

	g.logger.Debug("Calendar event created",
		zap.String("identity", identity.String()),
		zap.String("event_id", created.Id))

	return &CreatedEvent{
		EventID:     created.Id,
		MeetingLink: meetingLink(created),
	}, nil
}

// UpdateEvent частично обновляет событие
func (g *Google) UpdateEvent(ctx context.Context, identity model.MemberIdentity, eventID string, patch EventPatch) (*UpdatedEvent, error) {
	svc, err := g.service(ctx, identity)
	if err != nil {
		return nil, Wrap("update", identity, eventID, err)
	}

	body := &gcal.Event{}
	if patch.Title != nil {
		body.Summary = *patch.Title
		// Пустой заголовок тоже надо отправить
		body.ForceSendFields = append(body.ForceSendFields, "Summary")
	}
	if patch.Description != nil {
		body.Description = *patch.Description
		body.ForceSendFields = append(body.ForceSendFields, "Description")
	}
	if patch.Start != nil {
		body.Start = &gcal.EventDateTime{DateTime: patch.Start.Format(time.RFC3339)}
	}
	if patch.End != nil {
		body.End = &gcal.EventDateTime{DateTime: patch.End.Format(time.RFC3339)}
	}

	updated, err := svc.Events.Patch(primaryCalendar, eventID, body).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		return nil, Wrap("update", identity, eventID, err)
	}

	return &UpdatedEvent{MeetingLink: meetingLink(updated)}, nil
}

// DeleteEvent удаляет событие; уже удалённое событие ошибкой не считается
func (g *Google) DeleteEvent(ctx context.Context, identity model.MemberIdentity, eventID string, notifyAttendees bool) error {
	svc, err := g.service(ctx, identity)
	if err != nil {
		return Wrap("delete", identity, eventID, err)
	}

	sendUpdates := "none"
	if notifyAttendees {
		sendUpdates = "all"
	}

	err = svc.Events.Delete(primaryCalendar, eventID).SendUpdates(sendUpdates).Context(ctx).Do()
	if isGone(err) {
		g.logger.Info("Calendar event already deleted",
			zap.String("identity", identity.String()),
			zap.String("event_id", eventID))
		return nil
	}
	if err != nil {
		return Wrap("delete", identity, eventID, err)
	}
	return nil
}

func isGone(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
	}
	return false
}

// busyInterval переводит событие провайдера в занятый интервал.
// Отменённые и "прозрачные" события занятость не создают.
func busyInterval(item *gcal.Event, tzName string) (model.BusyInterval, bool) {
	if item == nil || item.Start == nil || item.End == nil {
		return model.BusyInterval{}, false
	}
	if item.Status == "cancelled" || item.Transparency == "transparent" {
		return model.BusyInterval{}, false
	}

	if item.Start.DateTime != "" && item.End.DateTime != "" {
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return model.BusyInterval{}, false
		}
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			return model.BusyInterval{}, false
		}
		return model.BusyInterval{Start: start, End: end}, true
	}

	// Событие на весь день: есть только дата
	loc := timezone.Location(tzName)
	start, err := time.ParseInLocation("2006-01-02", item.Start.Date, loc)
	if err != nil {
		return model.BusyInterval{}, false
	}
	end, err := time.ParseInLocation("2006-01-02", item.End.Date, loc)
	if err != nil || !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}
	return model.BusyInterval{Start: start, End: end, Coarse: true}, true
}

func meetingLink(event *gcal.Event) string {
	if event == nil {
		return ""
	}
	if event.HangoutLink != "" {
		return event.HangoutLink
	}
	if event.ConferenceData != nil {
		for _, entry := range event.ConferenceData.EntryPoints {
			if entry != nil && strings.EqualFold(entry.EntryPointType, "video") {
				return entry.Uri
			}
		}
	}
	return ""
}
