package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/app"
	"github.com/Freeeeeet/staff_scheduler/internal/calendar"
	"github.com/Freeeeeet/staff_scheduler/internal/config"
	"github.com/Freeeeeet/staff_scheduler/internal/controller"
	"github.com/Freeeeeet/staff_scheduler/internal/notify"
	"github.com/Freeeeeet/staff_scheduler/internal/repository"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
	"github.com/Freeeeeet/staff_scheduler/internal/timezone"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// deps общие зависимости команд
type deps struct {
	cfg     *config.Config
	logger  *zap.Logger
	pool    *pgxpool.Pool
	slots   *repository.SlotRepository
	members *repository.MemberRepository
	gateway calendar.Gateway
}

// openDeps загружает конфиг и подключается к базе.
// needCalendar требует настроенный Google Calendar.
func openDeps(ctx context.Context, needCalendar bool) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	d := &deps{
		cfg:     cfg,
		logger:  logger,
		pool:    pool,
		slots:   repository.NewSlotRepository(pool),
		members: repository.NewMemberRepository(pool),
	}

	if cfg.CalendarConfigured() {
		g, err := calendar.NewGoogle(calendar.GoogleConfig{
			ClientEmail: cfg.GoogleClientEmail,
			PrivateKey:  cfg.GooglePrivateKey,
			Timezone:    cfg.DefaultTimezone,
		}, logger)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.gateway = g
	} else if needCalendar {
		d.Close()
		return nil, fmt.Errorf("GOOGLE_CLIENT_EMAIL and GOOGLE_PRIVATE_KEY are required")
	}

	return d, nil
}

func (d *deps) Close() {
	d.pool.Close()
	_ = d.logger.Sync()
}

// notifier собирает уведомления: чаты администраторов, если есть бот, и письма заявителям
func (d *deps) notifier(b notify.MessageSender) service.Notifier {
	var sender notify.Sender = notify.NewNoopSender(d.logger)
	if d.cfg.MailConfigured() {
		sender = notify.NewResendSender(d.cfg.ResendAPIKey, d.cfg.MailFrom, d.logger)
	} else {
		d.logger.Warn("RESEND_API_KEY or MAIL_FROM is not set, emails are disabled")
	}

	multi := notify.Multi{notify.NewEmail(sender, d.cfg.DefaultTimezone, d.logger)}
	if b != nil && len(d.cfg.AdminChatIDs) > 0 {
		multi = append(multi, notify.NewTelegram(b, d.cfg.AdminChatIDs, d.cfg.DefaultTimezone, d.logger))
	}
	return multi
}

// cliNotifier для разовых команд: бот нужен только для отправки сообщений
func (d *deps) cliNotifier() service.Notifier {
	if d.cfg.TelegramToken == "" {
		return d.notifier(nil)
	}
	b, err := bot.New(d.cfg.TelegramToken, bot.WithSkipGetMe())
	if err != nil {
		d.logger.Warn("Telegram notifications are disabled", zap.Error(err))
		return d.notifier(nil)
	}
	return d.notifier(b)
}

func (d *deps) services(notifier service.Notifier) controller.Services {
	cfg := d.cfg
	return controller.Services{
		Requests: service.NewRequestService(d.slots, d.logger),
		Scheduling: service.NewSchedulingService(d.slots, d.members, d.gateway, notifier, service.SchedulingOptions{
			SlotDuration: cfg.SlotDuration,
			CallTimeout:  cfg.CalendarTimeout,
		}, d.logger),
		Roster: service.NewRosterService(d.slots, d.members, d.gateway, service.RosterOptions{
			SlotDuration:    cfg.SlotDuration,
			CallTimeout:     cfg.CalendarTimeout,
			Concurrency:     cfg.RosterConcurrency,
			DefaultTimezone: cfg.DefaultTimezone,
		}, d.logger),
		Directory: service.NewDirectoryService(d.members, d.logger),
	}
}

// instantLayout формат времени во флагах: "2025-03-10 13:00"
const instantLayout = "2006-01-02 15:04"

// parseInstant читает локальное время в зоне tzName
func parseInstant(raw, tzName string) (time.Time, error) {
	local, err := time.Parse(instantLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, want %q", raw, instantLayout)
	}
	return timezone.FromWallClock(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), tzName), nil
}

// printResult печатает {success, message} и пробрасывает ошибку для кода выхода
func printResult(w io.Writer, err error, extra map[string]any) error {
	res := service.ResultOf(err)
	out := map[string]any{
		"success": res.Success,
		"message": res.Message,
	}
	for k, v := range extra {
		out[k] = v
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(out); encErr != nil {
		return encErr
	}
	return err
}
