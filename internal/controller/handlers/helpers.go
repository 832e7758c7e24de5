package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/timezone"
)

var errUsage = errors.New("invalid command arguments")

// instantLayout формат момента времени в командах: "2025-03-10 13:00"
const instantLayout = "2006-01-02 15:04"

// commandArgs отрезает команду (вместе с @botname) и возвращает аргументы
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	_, rest, _ := strings.Cut(text, " ")
	return strings.TrimSpace(rest)
}

// parseCancelArgs разбирает "<id> [причина]"
func parseCancelArgs(args string) (id, reason string) {
	id, reason, _ = strings.Cut(strings.TrimSpace(args), " ")
	return id, strings.TrimSpace(reason)
}

type editArgs struct {
	SlotID      string
	Title       string
	Description string
	Member      string
}

// parseEditArgs разбирает "<slot_id> <заголовок> | <описание> [| <сотрудник>]"
func parseEditArgs(args string) (editArgs, error) {
	parts := strings.Split(args, "|")
	if len(parts) > 3 {
		return editArgs{}, errUsage
	}

	slotID, title, _ := strings.Cut(strings.TrimSpace(parts[0]), " ")
	out := editArgs{
		SlotID: slotID,
		Title:  strings.TrimSpace(title),
	}
	if len(parts) > 1 {
		out.Description = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		out.Member = strings.TrimSpace(parts[2])
		if out.Member == "" {
			return editArgs{}, errUsage
		}
	}

	if out.SlotID == "" || out.Title == "" {
		return editArgs{}, errUsage
	}
	return out, nil
}

// parseRosterTarget возвращает либо id слота, либо момент времени в зоне tzName
func parseRosterTarget(args, tzName string) (string, time.Time, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return "", time.Time{}, errUsage
	}

	if local, err := time.Parse(instantLayout, args); err == nil {
		at := timezone.FromWallClock(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), tzName)
		return "", at, nil
	}

	if strings.ContainsAny(args, " \t") {
		return "", time.Time{}, errUsage
	}
	return args, time.Time{}, nil
}
