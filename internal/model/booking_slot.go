package model

import "time"

type SlotStatus string

const (
	SlotStatusRequested SlotStatus = "requested" // Ожидает назначения сотрудника
	SlotStatusScheduled SlotStatus = "scheduled" // Встреча создана в календаре
	SlotStatusConcluded SlotStatus = "concluded" // Встреча прошла
	SlotStatusRejected  SlotStatus = "rejected"  // Отклонено (вручную или каскадом)
)

// IsValid проверяет что статус известен
func (s SlotStatus) IsValid() bool {
	switch s {
	case SlotStatusRequested, SlotStatusScheduled, SlotStatusConcluded, SlotStatusRejected:
		return true
	}
	return false
}

type RejectedBy string

const (
	RejectedByAdmin     RejectedBy = "admin"
	RejectedByRequester RejectedBy = "requester"
)

// BookingSlot одно предложенное заявителем время встречи
type BookingSlot struct {
	ID                 string      `json:"id"`
	RequestGroupID     string      `json:"request_group_id"`
	RequesterName      string      `json:"requester_name"`
	RequesterEmail     string      `json:"requester_email"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	RequestedStartTime time.Time   `json:"requested_start_time"`
	PriorityLevel      *int        `json:"priority_level"` // 1 - самый предпочтительный
	Status             SlotStatus  `json:"status"`
	AssignedMemberID   *string     `json:"assigned_member_id"`
	FinalStartTime     *time.Time  `json:"final_start_time"`
	FinalEndTime       *time.Time  `json:"final_end_time"`
	ExternalEventID    *string     `json:"external_event_id"` // есть только у scheduled
	MeetingLink        *string     `json:"meeting_link"`
	RejectionReason    *string     `json:"rejection_reason"`
	RejectedBy         *RejectedBy `json:"rejected_by"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// Clone возвращает независимую копию слота
func (s *BookingSlot) Clone() *BookingSlot {
	if s == nil {
		return nil
	}
	c := *s
	c.PriorityLevel = cloneInt(s.PriorityLevel)
	c.AssignedMemberID = cloneString(s.AssignedMemberID)
	c.FinalStartTime = cloneTime(s.FinalStartTime)
	c.FinalEndTime = cloneTime(s.FinalEndTime)
	c.ExternalEventID = cloneString(s.ExternalEventID)
	c.MeetingLink = cloneString(s.MeetingLink)
	c.RejectionReason = cloneString(s.RejectionReason)
	if s.RejectedBy != nil {
		rb := *s.RejectedBy
		c.RejectedBy = &rb
	}
	return &c
}

// HasCalendarEvent сообщает есть ли у слота событие во внешнем календаре
func (s *BookingSlot) HasCalendarEvent() bool {
	return s.ExternalEventID != nil && *s.ExternalEventID != ""
}

// Priority возвращает приоритет или 0 если он не задан
func (s *BookingSlot) Priority() int {
	if s.PriorityLevel == nil {
		return 0
	}
	return *s.PriorityLevel
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
