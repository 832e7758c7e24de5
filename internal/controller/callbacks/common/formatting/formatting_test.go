package formatting

import (
	"testing"
	"time"

	"github.com/Freeeeeet/staff_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatDateTimeIn(t *testing.T) {
	at := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "Пн 10.03.2025 13:00 (MSK)", FormatDateTimeIn(at, "Europe/Moscow"))
	assert.Equal(t, "Пн 10.03.2025 10:00 (UTC)", FormatDateTimeIn(at, "UTC"))
	assert.Equal(t, "13:00-14:00", FormatTimeRangeIn(at, at.Add(time.Hour), "Europe/Moscow"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 мин", FormatDuration(45*time.Minute))
	assert.Equal(t, "1 ч", FormatDuration(time.Hour))
	assert.Equal(t, "1 ч 30 мин", FormatDuration(90*time.Minute))
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{1, "заявка"},
		{2, "заявки"},
		{5, "заявок"},
		{11, "заявок"},
		{21, "заявка"},
		{104, "заявки"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PluralizeRequests(tt.count), tt.count)
	}
	assert.Equal(t, "слота", PluralizeSlots(3))
	assert.Equal(t, "сотрудников", PluralizeMembers(12))
}

func TestStatusDisplay(t *testing.T) {
	assert.Equal(t, "Назначена", GetSlotStatusDisplay(model.SlotStatusScheduled).Text)
	assert.Equal(t, "Отклонена", GetGroupStatusDisplay(model.GroupStatusRejected).Text)
	assert.Equal(t, "❓", GetSlotStatusDisplay("bogus").Emoji)
	assert.Equal(t, "⚠️", AvailabilityEmoji(true, true))
	assert.Equal(t, "🔴", AvailabilityEmoji(false, false))
}
